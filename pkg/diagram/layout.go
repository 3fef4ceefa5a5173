// Package diagram draws solved triangles.
//
// # Overview
//
// A [Layout] places a triangle in the plane with vertex A at the origin, B on
// the positive x axis and C above it:
//
//	A = (0, 0)
//	B = (c, 0)
//	C = (b·cos A, b·sin A)
//
// Vertex labels show the angle and side labels sit at each side's midpoint.
// All labels are offset by 5% of side c so they clear the outline.
//
// # Formats
//
// A layout is rendered by [Render] in one of several formats:
//
//   - png, pdf: raster and vector images drawn with gonum.org/v1/plot
//   - svg: a small hand-written SVG document (see [RenderSVG])
//   - dot: Graphviz neato output with pinned vertex positions (see [ToDOT])
//   - json: the layout itself
//
// [RenderAll] renders several layouts concurrently and keeps their order.
package diagram

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/geotrig/pkg/explain"
	"github.com/matzehuels/geotrig/pkg/trig"
)

// LabelOffsetRatio is the label offset as a fraction of side c.
const LabelOffsetRatio = 0.05

// Point is a layout coordinate.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Anchor is the horizontal alignment of a label relative to its position.
type Anchor string

// Label anchors.
const (
	AnchorLeft   Anchor = "left"
	AnchorCenter Anchor = "center"
	AnchorRight  Anchor = "right"
)

// LabelKind distinguishes vertex labels from side labels.
type LabelKind string

// Label kinds.
const (
	KindVertex LabelKind = "vertex"
	KindSide   LabelKind = "side"
)

// Label is a piece of text placed on the diagram.
type Label struct {
	Text   string    `json:"text" msgpack:"text"`
	At     Point     `json:"at" msgpack:"at"`
	Anchor Anchor    `json:"anchor" msgpack:"anchor"`
	Kind   LabelKind `json:"kind" msgpack:"kind"`
	Below  bool      `json:"below,omitempty" msgpack:"below,omitempty"`
}

// Layout is a positioned triangle ready for rendering.
type Layout struct {
	Title    string        `json:"title" msgpack:"title"`
	Triangle trig.Triangle `json:"triangle" msgpack:"triangle"`
	Vertices [3]Point      `json:"vertices" msgpack:"vertices"`
	Labels   []Label       `json:"labels" msgpack:"labels"`
}

// Vertices returns the positions of A, B and C for t.
func Vertices(t trig.Triangle) [3]Point {
	rad := t.AngleA * math.Pi / 180
	return [3]Point{
		{0, 0},
		{t.C, 0},
		{t.B * math.Cos(rad), t.B * math.Sin(rad)},
	}
}

// New lays out a solved triangle.
func New(s trig.Solution) Layout {
	t := s.Triangle
	v := Vertices(t)
	a, b, c := v[0], v[1], v[2]
	off := t.C * LabelOffsetRatio

	title := s.Title
	if title == "" {
		title = trig.DefaultTitle
	}

	return Layout{
		Title:    title,
		Triangle: t,
		Vertices: v,
		Labels: []Label{
			{Text: "A\n" + explain.Number(t.AngleA) + "°", At: Point{a.X - off, a.Y}, Anchor: AnchorRight, Kind: KindVertex},
			{Text: "B\n" + explain.Number(t.AngleB) + "°", At: Point{b.X + off, b.Y}, Anchor: AnchorLeft, Kind: KindVertex},
			{Text: "C\n" + explain.Number(t.AngleC) + "°", At: Point{c.X, c.Y + off}, Anchor: AnchorCenter, Kind: KindVertex},
			{Text: "c = " + explain.Number(t.C), At: Point{(a.X + b.X) / 2, a.Y - off/2}, Anchor: AnchorCenter, Kind: KindSide, Below: true},
			{Text: "a = " + explain.Number(t.A), At: Point{(b.X + c.X) / 2, (b.Y + c.Y) / 2}, Anchor: AnchorLeft, Kind: KindSide},
			{Text: "b = " + explain.Number(t.B), At: Point{(a.X + c.X) / 2, (a.Y + c.Y) / 2}, Anchor: AnchorRight, Kind: KindSide},
		},
	}
}

// Layouts lays out every solution in order.
func Layouts(solutions []trig.Solution) []Layout {
	out := make([]Layout, len(solutions))
	for i, s := range solutions {
		out[i] = New(s)
	}
	return out
}

// Bounds returns the bounding box of the vertices and labels.
func (l Layout) Bounds() (min, max Point) {
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	grow := func(p Point) {
		min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
		max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
	}
	for _, v := range l.Vertices {
		grow(v)
	}
	for _, lb := range l.Labels {
		grow(lb.At)
	}
	return min, max
}

// Hash returns a stable content hash of the layout, used as a cache key.
// Layouts are hashed as msgpack, which keeps NaN and ±Inf distinct.
func (l Layout) Hash() string {
	data, err := msgpack.Marshal(l)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", l))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
