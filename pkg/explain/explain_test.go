package explain

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{3, "3"},
		{-7, "-7"},
		{2.9999999999, "3"},
		{0.5, "0.50"},
		{math.Sqrt2, "1.41"},
		{-1.005, "-1.00"},
		{1e-12, "0"},
		{-1e-12, "0"},
		{123456, "123456"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := Number(tt.in); got != tt.want {
			t.Errorf("Number(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNumbered(t *testing.T) {
	steps := Numbered([]string{"a", "b"})
	if len(steps) != 2 {
		t.Fatalf("len = %d, want 2", len(steps))
	}
	if steps[0].Title != "Step 1" || steps[1].Title != "Step 2" {
		t.Errorf("titles = %q, %q", steps[0].Title, steps[1].Title)
	}
	if steps[1].Desc != "b" {
		t.Errorf("desc = %q, want b", steps[1].Desc)
	}
}

func TestTitled(t *testing.T) {
	steps := Titled("Analysis", []string{"x", "y", "z"})
	for _, s := range steps {
		if s.Title != "Analysis" {
			t.Errorf("title = %q, want Analysis", s.Title)
		}
	}
}

func TestMatrix(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 0, 0, -1})
	if got, want := Matrix(m), "[[1, 0], [0, -1]]"; got != want {
		t.Errorf("Matrix() = %q, want %q", got, want)
	}

	h := mat.NewDense(3, 3, []float64{1, 0, 2.5, 0, 1, 3, 0, 0, 1})
	if got, want := Matrix(h), "[[1, 0, 2.50], [0, 1, 3], [0, 0, 1]]"; got != want {
		t.Errorf("Matrix() = %q, want %q", got, want)
	}
}

func TestLaTeX(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{0, -1, 1, 0})
	want := `\left[\begin{matrix}0 & -1\\1 & 0\end{matrix}\right]`
	if got := LaTeX(m); got != want {
		t.Errorf("LaTeX() = %q, want %q", got, want)
	}
}

func TestPoint(t *testing.T) {
	if got := Point(-3, 2.25); got != "(-3, 2.25)" {
		t.Errorf("Point() = %q", got)
	}
}
