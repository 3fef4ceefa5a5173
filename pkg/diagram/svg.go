package diagram

import (
	"bytes"
	"fmt"
	"html"
	"strings"
)

const pxPerInch = 96.0

const svgStyle = `
    .outline { fill: #0ea5e9; fill-opacity: 0.1; stroke: #0ea5e9; stroke-width: 2; stroke-linejoin: round; }
    .vertex { fill: #0ea5e9; }
    .title { fill: #ffffff; font: 13px sans-serif; }
    .label-vertex { fill: #ffffff; font: bold 13px sans-serif; }
    .label-side { fill: #94a3b8; font: 12px sans-serif; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	title         bool
	background    string
}

// WithSize sets the pixel size of the document.
func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = w, h }
}

// WithoutTitle omits the caption.
func WithoutTitle() SVGOption { return func(r *svgRenderer) { r.title = false } }

// WithBackground fills the document with a solid color.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		width:  DefaultWidth * pxPerInch,
		height: DefaultHeight * pxPerInch,
		title:  true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG writes the layout as a standalone SVG document. Layout
// coordinates are mapped to the canvas with equal scale on both axes and the
// y axis pointing up.
func RenderSVG(l Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	top := 0.0
	if r.title {
		top = 28
	}
	tf := fitTransform(l, r.width, r.height-top, top)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(r.background))
	}
	if r.title {
		fmt.Fprintf(&buf, `  <text class="title" x="%.1f" y="18" text-anchor="middle">%s</text>`+"\n",
			r.width/2, html.EscapeString(l.Title))
	}

	pts := make([]string, len(l.Vertices))
	for i, v := range l.Vertices {
		x, y := tf(v)
		pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
	}
	fmt.Fprintf(&buf, `  <polygon class="outline" points="%s"/>`+"\n", strings.Join(pts, " "))
	for _, v := range l.Vertices {
		x, y := tf(v)
		fmt.Fprintf(&buf, `  <circle class="vertex" cx="%.2f" cy="%.2f" r="4"/>`+"\n", x, y)
	}

	for _, lb := range l.Labels {
		renderSVGLabel(&buf, lb, tf)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderSVGLabel(buf *bytes.Buffer, lb Label, tf func(Point) (float64, float64)) {
	x, y := tf(lb.At)
	class := "label-side"
	if lb.Kind == KindVertex {
		class = "label-vertex"
	}
	lines := strings.Split(lb.Text, "\n")
	const lineHeight = 15.0

	// Vertically center multi-line vertex labels on their anchor point.
	switch {
	case lb.Below:
		y += lineHeight
	case lb.Kind == KindVertex:
		y -= lineHeight * float64(len(lines)-1) / 2
	default:
		y -= 4
	}

	fmt.Fprintf(buf, `  <text class="%s" x="%.2f" y="%.2f" text-anchor="%s">`, class, x, y, svgAnchor(lb.Anchor))
	for i, line := range lines {
		dy := 0.0
		if i > 0 {
			dy = lineHeight
		}
		fmt.Fprintf(buf, `<tspan x="%.2f" dy="%.0f">%s</tspan>`, x, dy, html.EscapeString(line))
	}
	buf.WriteString("</text>\n")
}

func svgAnchor(a Anchor) string {
	switch a {
	case AnchorLeft:
		return "start"
	case AnchorRight:
		return "end"
	default:
		return "middle"
	}
}

// fitTransform maps layout coordinates into a w×h box offset top pixels
// from the top, preserving aspect ratio and flipping the y axis.
func fitTransform(l Layout, w, h, top float64) func(Point) (float64, float64) {
	lo, hi := l.Bounds()
	spanX, spanY := hi.X-lo.X, hi.Y-lo.Y
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	const margin = 0.12
	usableW, usableH := w*(1-2*margin), h*(1-2*margin)
	scale := usableW / spanX
	if s := usableH / spanY; s < scale {
		scale = s
	}
	offX := (w - spanX*scale) / 2
	offY := top + (h-spanY*scale)/2
	return func(p Point) (float64, float64) {
		return offX + (p.X-lo.X)*scale, offY + (hi.Y-p.Y)*scale
	}
}
