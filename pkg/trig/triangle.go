// Package trig solves triangles with the law of sines, the law of cosines and
// the side-angle-side area formula.
//
// All angles are in degrees. Each solver validates its inputs, returns coded
// errors from pkg/errors instead of producing NaN, and reports the worked
// steps along with every triangle it determined so callers can draw them.
//
// # Ambiguous case
//
// Given sides a, b and the non-included angle A, the height h = b·sin A
// decides how many triangles exist:
//
//	A ≥ 90° and a ≤ b   no triangle
//	a < h               no triangle
//	a = h               one right triangle
//	a ≥ b               one triangle
//	h < a < b           two triangles (acute and obtuse B)
package trig

import (
	"math"

	"github.com/matzehuels/geotrig/pkg/explain"
)

// Tolerance is the absolute tolerance used when comparing lengths.
const Tolerance = 1e-9

// DefaultTitle is the caption of a triangle diagram.
const DefaultTitle = "Triangle Visualization"

// Triangle holds three sides and their opposite angles in degrees.
type Triangle struct {
	A      float64 `json:"a" msgpack:"a"`
	B      float64 `json:"b" msgpack:"b"`
	C      float64 `json:"c" msgpack:"c"`
	AngleA float64 `json:"angle_a" msgpack:"angle_a"`
	AngleB float64 `json:"angle_b" msgpack:"angle_b"`
	AngleC float64 `json:"angle_c" msgpack:"angle_c"`
}

// Solution is a solved triangle with a caption for its diagram.
type Solution struct {
	Triangle
	Title string `json:"title" msgpack:"title"`
}

// Report is the outcome of a solver.
type Report struct {
	Results   []string       // result lines
	Steps     []explain.Step // worked explanation
	Solutions []Solution     // triangles to draw, possibly none
	Status    string         // short status text
	Warning   bool           // status should be highlighted
}

func solution(t Triangle) []Solution {
	return []Solution{{Triangle: t, Title: DefaultTitle}}
}

func num(v float64) string { return explain.Number(v) }

func rad(deg float64) float64 { return deg * math.Pi / 180 }

func deg(rad float64) float64 { return rad * 180 / math.Pi }

// sinDeg returns sin of deg degrees, exact at multiples of 90°.
func sinDeg(d float64) float64 {
	switch r := math.Mod(d, 360); r {
	case 0, 180, -180:
		return 0
	case 90, -270:
		return 1
	case 270, -90:
		return -1
	}
	return math.Sin(rad(d))
}

// cosDeg returns cos of deg degrees, exact at multiples of 90°.
func cosDeg(d float64) float64 {
	switch r := math.Mod(d, 360); r {
	case 90, 270, -90, -270:
		return 0
	case 0:
		return 1
	case 180, -180:
		return -1
	}
	return math.Cos(rad(d))
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// acosDeg returns acos(v) in degrees with v clamped to [-1, 1].
func acosDeg(v float64) float64 { return deg(math.Acos(clamp(v))) }

// asinDeg returns asin(v) in degrees with v clamped to [-1, 1].
func asinDeg(v float64) float64 { return deg(math.Asin(clamp(v))) }
