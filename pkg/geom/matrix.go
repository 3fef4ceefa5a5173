// Package geom implements 2D point transformations: translation, reflection,
// rotation and dilation, plus the inverse of a rotation or dilation matrix.
//
// Every operation is a closed-form matrix product computed with
// gonum.org/v1/gonum/mat. Alongside the transformed point each operation
// returns the matrix it applied and the explanation lines shown to the user.
//
// Angles are in degrees. Multiples of 90° produce exact 0 and ±1 entries so
// that a quarter turn of (2, 3) is (-3, 2) and not (-3, 2.0000000000000004).
package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/geotrig/pkg/errors"
)

// ReflectMode names a line or point of reflection.
type ReflectMode string

// Reflection modes.
const (
	ReflectX       ReflectMode = "x"      // about the x axis
	ReflectY       ReflectMode = "y"      // about the y axis
	ReflectYX      ReflectMode = "yx"     // about the line y = x
	ReflectYNegX   ReflectMode = "y-x"    // about the line y = -x
	ReflectOrigin  ReflectMode = "origin" // through the origin
	DefaultReflect             = ReflectX
)

// ReflectModes lists the accepted modes in display order.
var ReflectModes = []ReflectMode{ReflectX, ReflectY, ReflectYX, ReflectYNegX, ReflectOrigin}

// Label returns a human-readable description of the mode.
func (m ReflectMode) Label() string {
	switch m {
	case ReflectX:
		return "X axis"
	case ReflectY:
		return "Y axis"
	case ReflectYX:
		return "Line y = x"
	case ReflectYNegX:
		return "Line y = -x"
	case ReflectOrigin:
		return "Origin"
	}
	return string(m)
}

// ParseReflectMode validates s as a reflection mode.
func ParseReflectMode(s string) (ReflectMode, error) {
	m := ReflectMode(s)
	for _, valid := range ReflectModes {
		if m == valid {
			return m, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidMode, "unknown reflection mode %q (use x, y, yx, y-x or origin)", s)
}

// InverseKind selects which transformation Inverse builds.
type InverseKind string

// Invertible transformation kinds.
const (
	InverseRotation InverseKind = "rot"
	InverseDilation InverseKind = "dil"
)

// ParseInverseKind validates s as an inverse kind.
func ParseInverseKind(s string) (InverseKind, error) {
	switch k := InverseKind(s); k {
	case InverseRotation, InverseDilation:
		return k, nil
	}
	return "", errors.New(errors.ErrCodeInvalidMode, "unknown transformation %q (use rot or dil)", s)
}

// Matrix2 returns the 2×2 matrix for a reflection mode, "rot" (param in
// degrees) or "dil" (param is the scale factor). Unknown modes yield the
// identity.
func Matrix2(mode string, param float64) *mat.Dense {
	switch mode {
	case string(ReflectX):
		return mat.NewDense(2, 2, []float64{1, 0, 0, -1})
	case string(ReflectY):
		return mat.NewDense(2, 2, []float64{-1, 0, 0, 1})
	case string(ReflectYX):
		return mat.NewDense(2, 2, []float64{0, 1, 1, 0})
	case string(ReflectYNegX):
		return mat.NewDense(2, 2, []float64{0, -1, -1, 0})
	case string(ReflectOrigin):
		return mat.NewDense(2, 2, []float64{-1, 0, 0, -1})
	case string(InverseRotation):
		sin, cos := sincosDeg(param)
		return mat.NewDense(2, 2, []float64{cos, -sin, sin, cos})
	case string(InverseDilation):
		return mat.NewDense(2, 2, []float64{param, 0, 0, param})
	}
	return identity(2)
}

// Homogeneous embeds a 2×2 matrix in the upper-left of a 3×3 identity.
func Homogeneous(m2 mat.Matrix) *mat.Dense {
	h := identity(3)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			h.Set(i, j, m2.At(i, j))
		}
	}
	return h
}

// TranslationMatrix returns the 3×3 homogeneous translation by (tx, ty).
func TranslationMatrix(tx, ty float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, tx,
		0, 1, ty,
		0, 0, 1,
	})
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// sincosDeg returns sin and cos of deg degrees, exact at multiples of 90°.
func sincosDeg(deg float64) (sin, cos float64) {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	switch r {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(deg * math.Pi / 180)
}
