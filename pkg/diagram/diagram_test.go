package diagram

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/matzehuels/geotrig/pkg/errors"
	"github.com/matzehuels/geotrig/pkg/trig"
)

func rightTriangle(t *testing.T) Layout {
	t.Helper()
	tri, err := trig.Solve(3, 4, 5)
	if err != nil {
		t.Fatal(err)
	}
	return New(trig.Solution{Triangle: tri})
}

func TestVertices(t *testing.T) {
	// Sides a=3, b=4, c=5: angle A is opposite a.
	tri, _ := trig.Solve(3, 4, 5)
	v := Vertices(tri)

	if v[0] != (Point{0, 0}) {
		t.Errorf("A = %v, want origin", v[0])
	}
	if v[1] != (Point{5, 0}) {
		t.Errorf("B = %v, want (5, 0)", v[1])
	}
	// |AC| = b and |BC| = a.
	ac := floats.Distance([]float64{v[0].X, v[0].Y}, []float64{v[2].X, v[2].Y}, 2)
	bc := floats.Distance([]float64{v[1].X, v[1].Y}, []float64{v[2].X, v[2].Y}, 2)
	if !scalar.EqualWithinAbs(ac, 4, 1e-9) || !scalar.EqualWithinAbs(bc, 3, 1e-9) {
		t.Errorf("|AC| = %v, |BC| = %v; want 4, 3", ac, bc)
	}
}

func TestNewLabels(t *testing.T) {
	l := rightTriangle(t)
	if l.Title != trig.DefaultTitle {
		t.Errorf("title = %q", l.Title)
	}
	want := []string{"A\n36.87°", "B\n53.13°", "C\n90°", "c = 5", "a = 3", "b = 4"}
	if len(l.Labels) != len(want) {
		t.Fatalf("labels = %d, want %d", len(l.Labels), len(want))
	}
	for i, w := range want {
		if l.Labels[i].Text != w {
			t.Errorf("label %d = %q, want %q", i, l.Labels[i].Text, w)
		}
	}
	// Offset is 5% of c.
	if got := l.Labels[0].At.X; !scalar.EqualWithinAbs(got, -0.25, 1e-9) {
		t.Errorf("A label x = %v, want -0.25", got)
	}
}

func TestLayoutsKeepTitles(t *testing.T) {
	rep, err := trig.Ambiguous(5, 7, 30)
	if err != nil {
		t.Fatal(err)
	}
	ls := Layouts(rep.Solutions)
	if len(ls) != 2 || ls[0].Title != "Solution 1 (acute)" || ls[1].Title != "Solution 2 (obtuse)" {
		t.Errorf("layouts = %+v", ls)
	}
}

func TestHashStable(t *testing.T) {
	a, b := rightTriangle(t), rightTriangle(t)
	if a.Hash() != b.Hash() {
		t.Error("identical layouts hash differently")
	}
	b.Title = "other"
	if a.Hash() == b.Hash() {
		t.Error("different layouts hash equally")
	}
}

func TestHashNonFinite(t *testing.T) {
	a, b := rightTriangle(t), rightTriangle(t)
	a.Triangle.AngleA = math.NaN()
	b.Triangle.AngleA = math.NaN()
	b.Title = "other"
	if a.Hash() == b.Hash() {
		t.Error("layouts holding NaN share a hash")
	}
	if a.Hash() != a.Hash() {
		t.Error("hash of a NaN layout is unstable")
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, rightTriangle(t), FormatJSON, Options{}); err == nil {
		t.Error("Render with a cancelled context should fail")
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(rightTriangle(t), WithSize(400, 300)))
	for _, want := range []string{`<svg xmlns="http://www.w3.org/2000/svg"`, `width="400"`, "<polygon", "Triangle Visualization", "c = 5", "</svg>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Count(svg, "<circle") != 3 {
		t.Errorf("want 3 vertex markers")
	}

	noTitle := string(RenderSVG(rightTriangle(t), WithoutTitle(), WithBackground("#000")))
	if strings.Contains(noTitle, `class="title"`) {
		t.Error("WithoutTitle still renders the title")
	}
	if !strings.Contains(noTitle, `fill="#000"`) {
		t.Error("WithBackground not applied")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(rightTriangle(t))
	for _, want := range []string{
		"graph G {",
		`A [label="A\n36.87°", pos="0.000,0.000!"]`,
		`B [label="B\n53.13°", pos="4.000,0.000!"]`,
		`A -- B [label="c = 5"]`,
		`B -- C [label="a = 3"]`,
		`A -- C [label="b = 4"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestRenderFormats(t *testing.T) {
	l := rightTriangle(t)
	ctx := context.Background()

	tests := []struct {
		format string
		prefix []byte
	}{
		{FormatPNG, []byte("\x89PNG")},
		{FormatPDF, []byte("%PDF")},
		{FormatSVG, []byte("<svg")},
		{FormatJSON, []byte("{")},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Render(ctx, l, tt.format, Options{})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !bytes.HasPrefix(data, tt.prefix) {
				t.Errorf("output starts with %q, want %q", data[:min(8, len(data))], tt.prefix)
			}
		})
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	l := rightTriangle(t)
	data, err := Render(context.Background(), l, FormatJSON, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var got Layout
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Hash() != l.Hash() {
		t.Error("decoded layout differs")
	}
}

func TestRenderDOT(t *testing.T) {
	data, err := Render(context.Background(), rightTriangle(t), FormatDOT, Options{})
	if err != nil {
		t.Fatalf("Render dot: %v", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("<?xml")) && !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("not an SVG document")
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	_, err := Render(context.Background(), rightTriangle(t), "gif", Options{})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderAllKeepsOrder(t *testing.T) {
	rep, err := trig.Ambiguous(5, 7, 30)
	if err != nil {
		t.Fatal(err)
	}
	ls := Layouts(rep.Solutions)
	out, err := RenderAll(context.Background(), ls, FormatSVG, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("outputs = %d, want 2", len(out))
	}
	if !bytes.Contains(out[0], []byte("Solution 1 (acute)")) || !bytes.Contains(out[1], []byte("Solution 2 (obtuse)")) {
		t.Error("outputs out of order")
	}
}

func TestContentType(t *testing.T) {
	if ContentType(FormatPNG) != "image/png" || ContentType(FormatDOT) != "image/svg+xml" {
		t.Error("unexpected content types")
	}
	if Extension(FormatDOT) != ".dot.svg" || Extension(FormatPNG) != ".png" {
		t.Error("unexpected extensions")
	}
}
