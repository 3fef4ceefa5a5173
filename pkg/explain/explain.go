// Package explain formats the numbers, matrices and step lists shown
// alongside every calculation.
package explain

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// IntTolerance is how close a value must be to an integer to print without decimals.
const IntTolerance = 1e-9

// Step is one line of a worked explanation.
type Step struct {
	Title string `json:"title" msgpack:"title" bson:"title"`
	Desc  string `json:"desc" msgpack:"desc" bson:"desc"`
}

// Number formats v for display: integers print bare, anything else with two decimals.
func Number(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	r := math.Round(v)
	if math.Abs(v-r) < IntTolerance {
		if r == 0 {
			return "0"
		}
		return fmt.Sprintf("%.0f", r)
	}
	return fmt.Sprintf("%.2f", v)
}

// Numbered titles each description "Step 1", "Step 2", ...
func Numbered(descs []string) []Step {
	steps := make([]Step, len(descs))
	for i, d := range descs {
		steps[i] = Step{Title: fmt.Sprintf("Step %d", i+1), Desc: d}
	}
	return steps
}

// Titled gives every description the same title.
func Titled(title string, descs []string) []Step {
	steps := make([]Step, len(descs))
	for i, d := range descs {
		steps[i] = Step{Title: title, Desc: d}
	}
	return steps
}

// Matrix formats m as nested rows, e.g. [[1, 0], [0, -1]].
func Matrix(m mat.Matrix) string {
	r, c := m.Dims()
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < r; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('[')
		for j := 0; j < c; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(Number(m.At(i, j)))
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}

// LaTeX formats m as a bracketed LaTeX matrix for MathJax.
func LaTeX(m mat.Matrix) string {
	r, c := m.Dims()
	var sb strings.Builder
	sb.WriteString(`\left[\begin{matrix}`)
	for i := 0; i < r; i++ {
		if i > 0 {
			sb.WriteString(`\\`)
		}
		for j := 0; j < c; j++ {
			if j > 0 {
				sb.WriteString(" & ")
			}
			sb.WriteString(Number(m.At(i, j)))
		}
	}
	sb.WriteString(`\end{matrix}\right]`)
	return sb.String()
}

// Point formats a coordinate pair as (x, y).
func Point(x, y float64) string {
	return fmt.Sprintf("(%s, %s)", Number(x), Number(y))
}
