package diagram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// dotSpan is the largest vertex coordinate after scaling, in inches.
// Neato reads pinned positions in inches.
const dotSpan = 4.0

var vertexNames = [3]string{"A", "B", "C"}

// ToDOT converts a layout to Graphviz DOT with vertex positions pinned for
// the neato engine. Vertices are circle nodes labelled with their angle and
// edges carry the side labels.
func ToDOT(l Layout) string {
	var span float64
	for _, v := range l.Vertices {
		span = max(span, v.X, v.Y, -v.X, -v.Y)
	}
	if span <= 0 {
		span = 1
	}
	scale := dotSpan / span

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", l.Title)
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  fontcolor=\"#ffffff\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#0ea5e9\", color=\"#0ea5e9\", fontcolor=\"#ffffff\", fontsize=10, width=0.5, fixedsize=true];\n")
	buf.WriteString("  edge [color=\"#0ea5e9\", penwidth=2, fontcolor=\"#94a3b8\", fontsize=9];\n")
	buf.WriteString("\n")

	for i, v := range l.Vertices {
		label := vertexLabel(l, i)
		fmt.Fprintf(&buf, "  %s [label=%q, pos=\"%s,%s!\"];\n",
			vertexNames[i], label, fmtCoord(v.X*scale), fmtCoord(v.Y*scale))
	}

	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  A -- B [label=%q];\n", sideLabel(l, "c"))
	fmt.Fprintf(&buf, "  B -- C [label=%q];\n", sideLabel(l, "a"))
	fmt.Fprintf(&buf, "  A -- C [label=%q];\n", sideLabel(l, "b"))

	buf.WriteString("}\n")
	return buf.String()
}

func vertexLabel(l Layout, i int) string {
	for _, lb := range l.Labels {
		if lb.Kind == KindVertex && strings.HasPrefix(lb.Text, vertexNames[i]+"\n") {
			return lb.Text
		}
	}
	return vertexNames[i]
}

func sideLabel(l Layout, side string) string {
	for _, lb := range l.Labels {
		if lb.Kind == KindSide && strings.HasPrefix(lb.Text, side+" =") {
			return lb.Text
		}
	}
	return side
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// RenderDOT renders DOT source to SVG with the neato layout engine, which
// honours pinned positions.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.SetLayout(graphviz.NEATO).Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root element with one sized in
// pixels so the image scales like the other renderers' output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
