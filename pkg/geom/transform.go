package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/geotrig/pkg/errors"
	"github.com/matzehuels/geotrig/pkg/explain"
)

// SingularTolerance is the determinant magnitude below which a matrix is
// treated as non-invertible.
const SingularTolerance = 1e-12

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

func (p Point) String() string { return explain.Point(p.X, p.Y) }

func (p Point) isOrigin() bool { return p.X == 0 && p.Y == 0 }

// Result is the outcome of a transformation.
type Result struct {
	Point  Point      // transformed point (zero for Inverse)
	Matrix *mat.Dense // matrix applied, or the inverse for Inverse; nil for Translate
	Steps  []string   // explanation lines
}

func num(v float64) string { return explain.Number(v) }

// Translate shifts p by the vector t.
func Translate(p, t Point) Result {
	out := Point{p.X + t.X, p.Y + t.Y}
	return Result{
		Point: out,
		Steps: []string{
			fmt.Sprintf("Initial point P(%s, %s)", num(p.X), num(p.Y)),
			fmt.Sprintf("Translation vector T(%s, %s)", num(t.X), num(t.Y)),
			fmt.Sprintf("x' = %s + %s = %s", num(p.X), num(t.X), num(out.X)),
			fmt.Sprintf("y' = %s + %s = %s", num(p.Y), num(t.Y), num(out.Y)),
		},
	}
}

// TranslateHomogeneous shifts p by t using a 3×3 homogeneous matrix product.
func TranslateHomogeneous(p, t Point) Result {
	m := TranslationMatrix(t.X, t.Y)
	var v mat.VecDense
	v.MulVec(m, mat.NewVecDense(3, []float64{p.X, p.Y, 1}))
	out := Point{v.AtVec(0), v.AtVec(1)}
	return Result{
		Point:  out,
		Matrix: m,
		Steps: []string{
			fmt.Sprintf("Convert P(%s, %s) to homogeneous coordinates: [x, y, 1]", num(p.X), num(p.Y)),
			fmt.Sprintf("3x3 translation matrix: [[1,0,%s],[0,1,%s],[0,0,1]]", num(t.X), num(t.Y)),
			fmt.Sprintf("Product: [%s, %s, 1]", num(out.X), num(out.Y)),
		},
	}
}

// Reflect mirrors p according to mode.
func Reflect(p Point, mode ReflectMode) Result {
	m := Matrix2(string(mode), 0)
	out := apply(m, p, Point{})
	return Result{
		Point:  out,
		Matrix: m,
		Steps: []string{
			fmt.Sprintf("Initial point P(%s, %s)", num(p.X), num(p.Y)),
			fmt.Sprintf("Reflection matrix: %s", explain.Matrix(m)),
			fmt.Sprintf("P' = M × P = %s", out),
		},
	}
}

// Rotate turns p by angle degrees counter-clockwise about center.
// A non-origin center is handled as shift, rotate, shift back.
func Rotate(p Point, angle float64, center Point) Result {
	m := Matrix2(string(InverseRotation), angle)
	out := apply(m, p, center)
	var step string
	if center.isOrigin() {
		step = fmt.Sprintf("Rotation about (0,0) by %s°", num(angle))
	} else {
		step = fmt.Sprintf("Rotation about (%s,%s) by %s°: shift-rotate-shift", num(center.X), num(center.Y), num(angle))
	}
	return Result{Point: out, Matrix: m, Steps: []string{step}}
}

// Dilate scales p by factor k about center.
func Dilate(p Point, k float64, center Point) Result {
	m := Matrix2(string(InverseDilation), k)
	out := apply(m, p, center)
	var step string
	if center.isOrigin() {
		step = fmt.Sprintf("Dilation about (0,0) with factor k=%s", num(k))
	} else {
		cx, cy := num(center.X), num(center.Y)
		step = fmt.Sprintf("Dilation about (%s,%s) with factor k=%s: (x'-%s) = %s·(x-%s)", cx, cy, num(k), cx, num(k), cx)
	}
	return Result{Point: out, Matrix: m, Steps: []string{step}}
}

// Inverse builds the rotation or dilation matrix for param and inverts it.
// A singular matrix yields a SINGULAR_MATRIX error; the returned Result still
// carries the explanation.
func Inverse(kind InverseKind, param float64) (Result, error) {
	m := Matrix2(string(kind), param)
	det := mat.Det(m)
	if math.Abs(det) < SingularTolerance {
		return Result{Steps: []string{"Singular matrix, no inverse exists."}},
			errors.New(errors.ErrCodeSingularMatrix, "matrix %s has determinant %s", explain.Matrix(m), num(det))
	}

	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return Result{Steps: []string{"Singular matrix, no inverse exists."}},
			errors.Wrap(errors.ErrCodeSingularMatrix, err, "cannot invert %s", explain.Matrix(m))
	}
	cleanZeros(&inv)

	return Result{
		Matrix: &inv,
		Steps: []string{
			fmt.Sprintf("Original matrix M: %s", explain.Matrix(m)),
			fmt.Sprintf("Determinant = %s", num(det)),
			"Inverse M⁻¹ = 1/det(M) × Adj(M)",
		},
	}, nil
}

// apply computes m·(p−c)+c.
func apply(m mat.Matrix, p, c Point) Point {
	var v mat.VecDense
	v.MulVec(m, mat.NewVecDense(2, []float64{p.X - c.X, p.Y - c.Y}))
	return Point{v.AtVec(0) + c.X, v.AtVec(1) + c.Y}
}

// cleanZeros replaces negative zeros produced by inversion with +0.
func cleanZeros(m *mat.Dense) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) == 0 {
				m.Set(i, j, 0)
			}
		}
	}
}
