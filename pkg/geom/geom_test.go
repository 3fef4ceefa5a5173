package geom

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/geotrig/pkg/errors"
)

const tol = 1e-9

func assertPoint(t *testing.T, got, want Point) {
	t.Helper()
	if !scalar.EqualWithinAbs(got.X, want.X, tol) || !scalar.EqualWithinAbs(got.Y, want.Y, tol) {
		t.Errorf("point = %v, want %v", got, want)
	}
}

func TestTranslate(t *testing.T) {
	res := Translate(Point{2, 3}, Point{1, 2})
	assertPoint(t, res.Point, Point{3, 5})

	want := []string{
		"Initial point P(2, 3)",
		"Translation vector T(1, 2)",
		"x' = 2 + 1 = 3",
		"y' = 3 + 2 = 5",
	}
	if len(res.Steps) != len(want) {
		t.Fatalf("steps = %d, want %d", len(res.Steps), len(want))
	}
	for i := range want {
		if res.Steps[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, res.Steps[i], want[i])
		}
	}
	if res.Matrix != nil {
		t.Error("Translate should not return a matrix")
	}
}

func TestTranslateHomogeneous(t *testing.T) {
	res := TranslateHomogeneous(Point{2, 3}, Point{1, 2})
	assertPoint(t, res.Point, Point{3, 5})

	if r, c := res.Matrix.Dims(); r != 3 || c != 3 {
		t.Fatalf("matrix dims = %dx%d, want 3x3", r, c)
	}
	if res.Matrix.At(0, 2) != 1 || res.Matrix.At(1, 2) != 2 {
		t.Errorf("translation column = (%v, %v), want (1, 2)", res.Matrix.At(0, 2), res.Matrix.At(1, 2))
	}
	if got := res.Steps[2]; got != "Product: [3, 5, 1]" {
		t.Errorf("last step = %q", got)
	}
}

func TestReflect(t *testing.T) {
	p := Point{2, 3}
	tests := []struct {
		mode ReflectMode
		want Point
	}{
		{ReflectX, Point{2, -3}},
		{ReflectY, Point{-2, 3}},
		{ReflectYX, Point{3, 2}},
		{ReflectYNegX, Point{-3, -2}},
		{ReflectOrigin, Point{-2, -3}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			res := Reflect(p, tt.mode)
			assertPoint(t, res.Point, tt.want)
			if !strings.HasPrefix(res.Steps[1], "Reflection matrix: [[") {
				t.Errorf("matrix step = %q", res.Steps[1])
			}
		})
	}
}

func TestReflectIsInvolution(t *testing.T) {
	p := Point{-1.5, 4.25}
	for _, mode := range ReflectModes {
		twice := Reflect(Reflect(p, mode).Point, mode).Point
		assertPoint(t, twice, p)
	}
}

func TestParseReflectMode(t *testing.T) {
	for _, m := range ReflectModes {
		if _, err := ParseReflectMode(string(m)); err != nil {
			t.Errorf("ParseReflectMode(%q) error: %v", m, err)
		}
	}
	_, err := ParseReflectMode("z")
	if !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("ParseReflectMode(z) = %v, want INVALID_MODE", err)
	}
}

func TestRotate(t *testing.T) {
	tests := []struct {
		name   string
		p      Point
		angle  float64
		center Point
		want   Point
		step   string
	}{
		{"quarter turn", Point{2, 3}, 90, Point{}, Point{-3, 2}, "Rotation about (0,0) by 90°"},
		{"half turn", Point{2, 3}, 180, Point{}, Point{-2, -3}, "Rotation about (0,0) by 180°"},
		{"negative", Point{1, 0}, -90, Point{}, Point{0, -1}, "Rotation about (0,0) by -90°"},
		{"full turn", Point{2, 3}, 360, Point{}, Point{2, 3}, "Rotation about (0,0) by 360°"},
		{"about center", Point{2, 1}, 90, Point{1, 1}, Point{1, 2}, "Rotation about (1,1) by 90°: shift-rotate-shift"},
		{"thirty", Point{1, 0}, 30, Point{}, Point{math.Sqrt(3) / 2, 0.5}, "Rotation about (0,0) by 30°"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Rotate(tt.p, tt.angle, tt.center)
			assertPoint(t, res.Point, tt.want)
			if res.Steps[0] != tt.step {
				t.Errorf("step = %q, want %q", res.Steps[0], tt.step)
			}
		})
	}
}

func TestRotateExactQuarterTurn(t *testing.T) {
	res := Rotate(Point{2, 3}, 90, Point{})
	if res.Point.X != -3 || res.Point.Y != 2 {
		t.Errorf("Rotate 90° = %v, want exact (-3, 2)", res.Point)
	}
}

func TestDilate(t *testing.T) {
	res := Dilate(Point{2, 3}, 2, Point{})
	assertPoint(t, res.Point, Point{4, 6})
	if res.Steps[0] != "Dilation about (0,0) with factor k=2" {
		t.Errorf("step = %q", res.Steps[0])
	}

	res = Dilate(Point{3, 3}, 2, Point{1, 1})
	assertPoint(t, res.Point, Point{5, 5})
	want := "Dilation about (1,1) with factor k=2: (x'-1) = 2·(x-1)"
	if res.Steps[0] != want {
		t.Errorf("step = %q, want %q", res.Steps[0], want)
	}
}

func TestInverse(t *testing.T) {
	t.Run("rotation", func(t *testing.T) {
		res, err := Inverse(InverseRotation, 90)
		if err != nil {
			t.Fatalf("Inverse: %v", err)
		}
		want := mat.NewDense(2, 2, []float64{0, 1, -1, 0})
		if !mat.EqualApprox(res.Matrix, want, tol) {
			t.Errorf("inverse = %v, want %v", mat.Formatted(res.Matrix), mat.Formatted(want))
		}
		if res.Steps[1] != "Determinant = 1" {
			t.Errorf("determinant step = %q", res.Steps[1])
		}
	})

	t.Run("dilation", func(t *testing.T) {
		res, err := Inverse(InverseDilation, 4)
		if err != nil {
			t.Fatalf("Inverse: %v", err)
		}
		want := mat.NewDense(2, 2, []float64{0.25, 0, 0, 0.25})
		if !mat.EqualApprox(res.Matrix, want, tol) {
			t.Errorf("inverse = %v", mat.Formatted(res.Matrix))
		}
	})

	t.Run("product is identity", func(t *testing.T) {
		m := Matrix2("rot", 37)
		res, err := Inverse(InverseRotation, 37)
		if err != nil {
			t.Fatalf("Inverse: %v", err)
		}
		var prod mat.Dense
		prod.Mul(m, res.Matrix)
		if !mat.EqualApprox(&prod, identity(2), tol) {
			t.Errorf("M·M⁻¹ = %v", mat.Formatted(&prod))
		}
	})

	t.Run("singular", func(t *testing.T) {
		res, err := Inverse(InverseDilation, 0)
		if !errors.Is(err, errors.ErrCodeSingularMatrix) {
			t.Fatalf("err = %v, want SINGULAR_MATRIX", err)
		}
		if len(res.Steps) != 1 || res.Steps[0] != "Singular matrix, no inverse exists." {
			t.Errorf("steps = %q", res.Steps)
		}
	})
}

func TestHomogeneous(t *testing.T) {
	h := Homogeneous(Matrix2("x", 0))
	want := mat.NewDense(3, 3, []float64{1, 0, 0, 0, -1, 0, 0, 0, 1})
	if !mat.Equal(h, want) {
		t.Errorf("Homogeneous = %v", mat.Formatted(h))
	}
}

func TestMatrix2Unknown(t *testing.T) {
	if !mat.Equal(Matrix2("shear", 1), identity(2)) {
		t.Error("unknown mode should yield identity")
	}
}

func TestSincosDeg(t *testing.T) {
	tests := []struct {
		deg      float64
		sin, cos float64
	}{
		{0, 0, 1},
		{90, 1, 0},
		{180, 0, -1},
		{270, -1, 0},
		{-90, -1, 0},
		{450, 1, 0},
	}
	for _, tt := range tests {
		s, c := sincosDeg(tt.deg)
		if s != tt.sin || c != tt.cos {
			t.Errorf("sincosDeg(%v) = (%v, %v), want (%v, %v)", tt.deg, s, c, tt.sin, tt.cos)
		}
	}
}
