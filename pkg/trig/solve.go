package trig

import (
	"fmt"
	"math"

	"github.com/matzehuels/geotrig/pkg/errors"
	"github.com/matzehuels/geotrig/pkg/explain"
)

// LawOfSines finds side a from side b and angles A and B.
func LawOfSines(b, angleA, angleB float64) (Report, error) {
	if err := errors.ValidatePositive("side b", b); err != nil {
		return Report{}, err
	}
	if err := errors.ValidateAngle("angle A", angleA); err != nil {
		return Report{}, err
	}
	if err := errors.ValidateAngle("angle B", angleB); err != nil {
		return Report{}, err
	}
	if angleA+angleB >= 180 {
		return Report{}, errors.New(errors.ErrCodeInvalidTriangle,
			"angles A and B sum to %s°, must be less than 180°", num(angleA+angleB))
	}

	a := b * sinDeg(angleA) / sinDeg(angleB)
	angleC := 180 - angleA - angleB
	c := b * sinDeg(angleC) / sinDeg(angleB)

	return Report{
		Results: []string{"Side a = " + num(a)},
		Steps: []explain.Step{
			{Title: "Formula", Desc: "a/sin A = b/sin B"},
			{Title: "Substitution", Desc: fmt.Sprintf("a = %s × sin(%s) / sin(%s)", num(b), num(angleA), num(angleB))},
			{Title: "Result", Desc: "a = " + num(a)},
		},
		Solutions: solution(Triangle{A: a, B: b, C: c, AngleA: angleA, AngleB: angleB, AngleC: angleC}),
		Status:    "✓ Side a found",
	}, nil
}

// Ambiguous analyses the SSA case for sides a, b and angle A and returns
// zero, one or two solutions.
func Ambiguous(a, b, angleA float64) (Report, error) {
	if err := errors.ValidatePositive("side a", a); err != nil {
		return Report{}, err
	}
	if err := errors.ValidatePositive("side b", b); err != nil {
		return Report{}, err
	}
	if err := errors.ValidateAngle("angle A", angleA); err != nil {
		return Report{}, err
	}

	sinA := sinDeg(angleA)
	h := b * sinA
	steps := []string{
		fmt.Sprintf("Given: a=%s, b=%s, A=%s°", num(a), num(b), num(angleA)),
		fmt.Sprintf("Height h = b × sin A = %s × %s = %s", num(b), num(sinA), num(h)),
	}
	sideC := func(angleC float64) float64 { return a * sinDeg(angleC) / sinA }

	var (
		angles    []float64
		solutions []Solution
		status    string
		warning   bool
	)

	switch {
	case angleA >= 90 && a <= b:
		steps = append(steps, "Since A ≥ 90° and a ≤ b, no triangle exists")
		status = "No solution (0 triangles)"

	case a < h && math.Abs(a-h) >= Tolerance:
		steps = append(steps, fmt.Sprintf("Since a < h (%s < %s), no triangle exists", num(a), num(h)))
		status = "No solution (0 triangles)"

	case math.Abs(a-h) < Tolerance:
		angleB := 90.0
		angleC := 180 - angleA - angleB
		steps = append(steps, "Since a = h, the triangle is right-angled at B")
		angles = []float64{angleB}
		solutions = solution(Triangle{A: a, B: b, C: sideC(angleC), AngleA: angleA, AngleB: angleB, AngleC: angleC})
		status = "1 solution (right triangle)"

	case a >= b:
		angleB := asinDeg(h / a)
		angleC := 180 - angleA - angleB
		steps = append(steps,
			"Since a ≥ b, there is exactly 1 triangle",
			fmt.Sprintf("B = %s°", num(angleB)),
		)
		angles = []float64{angleB}
		solutions = solution(Triangle{A: a, B: b, C: sideC(angleC), AngleA: angleA, AngleB: angleB, AngleC: angleC})
		status = "1 solution"

	default:
		b1 := asinDeg(h / a)
		b2 := 180 - b1
		c1 := 180 - angleA - b1
		c2 := 180 - angleA - b2
		steps = append(steps, "Since h < a < b, there are 2 possible triangles")
		angles = []float64{b1, b2}
		solutions = []Solution{
			{Triangle: Triangle{A: a, B: b, C: sideC(c1), AngleA: angleA, AngleB: b1, AngleC: c1}, Title: "Solution 1 (acute)"},
			{Triangle: Triangle{A: a, B: b, C: sideC(c2), AngleA: angleA, AngleB: b2, AngleC: c2}, Title: "Solution 2 (obtuse)"},
		}
		status = "2 solutions (ambiguous)"
		warning = true
	}

	results := make([]string, 0, len(angles))
	for i, ang := range angles {
		results = append(results, fmt.Sprintf("Angle B%d = %s°", i+1, num(ang)))
	}
	if len(results) == 0 {
		results = append(results, "No solution")
	}

	return Report{
		Results:   results,
		Steps:     explain.Titled("Analysis", steps),
		Solutions: solutions,
		Status:    status,
		Warning:   warning,
	}, nil
}

// CosineSide finds side c from sides a, b and the included angle C.
func CosineSide(a, b, angleC float64) (Report, error) {
	if err := errors.ValidatePositive("side a", a); err != nil {
		return Report{}, err
	}
	if err := errors.ValidatePositive("side b", b); err != nil {
		return Report{}, err
	}
	if err := errors.ValidateAngle("angle C", angleC); err != nil {
		return Report{}, err
	}

	t, err := sas(a, b, angleC)
	if err != nil {
		return Report{}, err
	}
	cSq := t.C * t.C

	return Report{
		Results: []string{"Side c = " + num(t.C)},
		Steps: explain.Numbered([]string{
			"c² = a² + b² - 2ab·cos C",
			fmt.Sprintf("c = √%s = %s", num(cSq), num(t.C)),
		}),
		Solutions: solution(t),
		Status:    "✓ Side c found",
	}, nil
}

// CosineAngle finds angle C from three sides.
func CosineAngle(a, b, c float64) (Report, error) {
	if err := errors.ValidateSides(a, b, c); err != nil {
		return Report{}, err
	}

	t := sss(a, b, c)
	return Report{
		Results: []string{fmt.Sprintf("Angle C = %s°", num(t.AngleC))},
		Steps: explain.Numbered([]string{
			"cos C = (a² + b² - c²) / 2ab",
			fmt.Sprintf("C = %s°", num(t.AngleC)),
		}),
		Solutions: solution(t),
		Status:    "✓ Angle C found",
	}, nil
}

// Area computes ½·a·b·sin C. The drawn triangle is completed with the law of
// cosines.
func Area(a, b, angleC float64) (Report, error) {
	if err := errors.ValidatePositive("side a", a); err != nil {
		return Report{}, err
	}
	if err := errors.ValidatePositive("side b", b); err != nil {
		return Report{}, err
	}
	if err := errors.ValidateAngle("angle C", angleC); err != nil {
		return Report{}, err
	}

	t, err := sas(a, b, angleC)
	if err != nil {
		return Report{}, err
	}
	s := sinDeg(angleC)
	area := 0.5 * a * b * s

	return Report{
		Results: []string{fmt.Sprintf("Area = %s units²", num(area))},
		Steps: explain.Numbered([]string{
			fmt.Sprintf("sin(%s°) = %s", num(angleC), num(s)),
			fmt.Sprintf("L = ½ × %s × %s × %s", num(a), num(b), num(s)),
			"L = " + num(area),
		}),
		Solutions: solution(t),
		Status:    "✓ Triangle area computed",
	}, nil
}

// FromSides solves every angle of the triangle with sides a, b and c, and its
// area by Heron's formula.
func FromSides(a, b, c float64) (Report, error) {
	if err := errors.ValidateSides(a, b, c); err != nil {
		return Report{}, err
	}

	t := sss(a, b, c)
	s := (a + b + c) / 2
	area := math.Sqrt(s * (s - a) * (s - b) * (s - c))

	return Report{
		Results: []string{
			fmt.Sprintf("Angle A = %s°", num(t.AngleA)),
			fmt.Sprintf("Angle B = %s°", num(t.AngleB)),
			fmt.Sprintf("Angle C = %s°", num(t.AngleC)),
			fmt.Sprintf("Area = %s units²", num(area)),
		},
		Steps: explain.Numbered([]string{
			"cos A = (b² + c² - a²) / 2bc",
			fmt.Sprintf("A = %s°", num(t.AngleA)),
			"cos B = (a² + c² - b²) / 2ac",
			fmt.Sprintf("B = %s°", num(t.AngleB)),
			fmt.Sprintf("C = 180° - A - B = %s°", num(t.AngleC)),
			fmt.Sprintf("s = (a + b + c) / 2 = %s, L = √(s(s-a)(s-b)(s-c)) = %s", num(s), num(area)),
		}),
		Solutions: solution(t),
		Status:    "✓ Triangle solved",
	}, nil
}

// Solve completes a triangle from three sides.
func Solve(a, b, c float64) (Triangle, error) {
	if err := errors.ValidateSides(a, b, c); err != nil {
		return Triangle{}, err
	}
	return sss(a, b, c), nil
}

// sas completes a triangle from two sides and the included angle C. Side c
// uses (a-b)² + 4ab·sin²(C/2), which does not cancel for small C, and fails
// when the triangle collapses to a segment.
func sas(a, b, angleC float64) (Triangle, error) {
	h := sinDeg(angleC / 2)
	c := math.Sqrt((a-b)*(a-b) + 4*a*b*h*h)
	if c < Tolerance {
		return Triangle{}, errors.New(errors.ErrCodeInvalidTriangle,
			"sides %s, %s with angle %s° give a degenerate triangle", num(a), num(b), num(angleC))
	}
	angleA := deg(math.Atan2(a*sinDeg(angleC), b-a*cosDeg(angleC)))
	return Triangle{A: a, B: b, C: c, AngleA: angleA, AngleB: 180 - angleC - angleA, AngleC: angleC}, nil
}

// sss completes a triangle from three sides.
func sss(a, b, c float64) Triangle {
	angleC := acosDeg((a*a + b*b - c*c) / (2 * a * b))
	angleA := acosDeg((b*b + c*c - a*a) / (2 * b * c))
	return Triangle{A: a, B: b, C: c, AngleA: angleA, AngleB: 180 - angleC - angleA, AngleC: angleC}
}
