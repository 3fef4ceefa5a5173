package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateExpression(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"integer", "2", false},
		{"fraction", "1/2", false},
		{"function", "sqrt(3)", false},
		{"unicode", "2·π", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("1", MaxExpressionLength+1), true},
		{"null byte", "1\x002", true},
		{"newline", "1\n2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpression("px", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExpression(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidExpression) {
				t.Errorf("expected INVALID_EXPRESSION, got %v", GetCode(err))
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		v       float64
		wantErr bool
	}{
		{1, false},
		{0.001, false},
		{0, true},
		{-3, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}
	for _, tt := range tests {
		if err := ValidatePositive("b", tt.v); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePositive(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
		}
	}
}

func TestValidateAngle(t *testing.T) {
	tests := []struct {
		deg     float64
		wantErr bool
	}{
		{30, false},
		{179.9, false},
		{0, true},
		{180, true},
		{-10, true},
		{math.NaN(), true},
	}
	for _, tt := range tests {
		if err := ValidateAngle("A", tt.deg); (err != nil) != tt.wantErr {
			t.Errorf("ValidateAngle(%v) error = %v, wantErr %v", tt.deg, err, tt.wantErr)
		}
	}
}

func TestValidateSides(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		wantErr bool
	}{
		{"right triangle", 3, 4, 5, false},
		{"equilateral", 2, 2, 2, false},
		{"degenerate", 1, 2, 3, true},
		{"impossible", 1, 1, 5, true},
		{"zero side", 0, 4, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSides(tt.a, tt.b, tt.c)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSides() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTriangle) {
				t.Errorf("expected INVALID_TRIANGLE, got %v", GetCode(err))
			}
		})
	}
}
