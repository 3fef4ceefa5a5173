package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxExpressionLength bounds the size of a single numeric input field.
const MaxExpressionLength = 256

// ValidateExpression validates raw user input before it reaches the
// expression evaluator.
//
// The validation rules are intentionally conservative:
//   - No empty input
//   - Maximum length of 256 characters
//   - No control characters or null bytes
func ValidateExpression(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return New(ErrCodeInvalidExpression, "%s cannot be empty", field)
	}

	if len(s) > MaxExpressionLength {
		return New(ErrCodeInvalidExpression, "%s too long (max %d characters)", field, MaxExpressionLength)
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidExpression, "%s contains invalid control characters", field)
		}
	}

	return nil
}

// ValidateFinite rejects NaN and infinities.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", field)
	}
	return nil
}

// ValidatePositive checks that a side length or scale factor is strictly positive.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidTriangle, "%s must be greater than 0", field)
	}
	return nil
}

// ValidateAngle checks that a triangle angle in degrees lies in the open
// interval (0, 180).
func ValidateAngle(field string, deg float64) error {
	if err := ValidateFinite(field, deg); err != nil {
		return err
	}
	if deg <= 0 || deg >= 180 {
		return New(ErrCodeInvalidTriangle, "%s must be between 0° and 180° (exclusive)", field)
	}
	return nil
}

// ValidateSides checks the triangle inequality for three positive sides.
func ValidateSides(a, b, c float64) error {
	for _, s := range []struct {
		name string
		v    float64
	}{{"a", a}, {"b", b}, {"c", c}} {
		if err := ValidatePositive("side "+s.name, s.v); err != nil {
			return err
		}
	}
	if a+b <= c || a+c <= b || b+c <= a {
		return New(ErrCodeInvalidTriangle, "sides %g, %g, %g violate the triangle inequality", a, b, c)
	}
	return nil
}
