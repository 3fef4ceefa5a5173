package diagram

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Palette.
var (
	accentColor = color.NRGBA{R: 0x0e, G: 0xa5, B: 0xe9, A: 0xff}
	fillColor   = color.NRGBA{R: 0x0e, G: 0xa5, B: 0xe9, A: 0x1a} // accent at alpha 0.1
	vertexColor = color.White
	sideColor   = color.NRGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

// plotPadding is the fraction of the data span added around the triangle.
const plotPadding = 0.15

// RenderPlot draws the layout with gonum/plot as png or pdf.
func RenderPlot(l Layout, format string, opts Options) ([]byte, error) {
	opts.SetDefaults()
	p := plot.New()
	p.BackgroundColor = color.Transparent
	p.Title.Text = l.Title
	p.Title.TextStyle.Color = vertexColor
	p.Title.TextStyle.Font.Size = vg.Points(10)
	p.Title.Padding = vg.Points(10)
	p.HideAxes()

	outline := plotter.XYs{
		{X: l.Vertices[0].X, Y: l.Vertices[0].Y},
		{X: l.Vertices[1].X, Y: l.Vertices[1].Y},
		{X: l.Vertices[2].X, Y: l.Vertices[2].Y},
	}

	poly, err := plotter.NewPolygon(outline)
	if err != nil {
		return nil, fmt.Errorf("polygon: %w", err)
	}
	poly.Color = fillColor
	poly.LineStyle.Color = accentColor
	poly.LineStyle.Width = vg.Points(2)

	markers, err := plotter.NewScatter(outline)
	if err != nil {
		return nil, fmt.Errorf("markers: %w", err)
	}
	markers.GlyphStyle = draw.GlyphStyle{Color: accentColor, Radius: vg.Points(3), Shape: draw.CircleGlyph{}}

	labels, err := plotLabels(l)
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}

	p.Add(poly, markers, labels)
	fitEqualAspect(p, l, opts.Width/opts.Height)

	w, err := p.WriterTo(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch, format)
	if err != nil {
		return nil, fmt.Errorf("canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

func plotLabels(l Layout) (*plotter.Labels, error) {
	xyl := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(l.Labels)),
		Labels: make([]string, len(l.Labels)),
	}
	for i, lb := range l.Labels {
		xyl.XYs[i] = plotter.XY{X: lb.At.X, Y: lb.At.Y}
		xyl.Labels[i] = lb.Text
	}

	labels, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, err
	}
	for i, lb := range l.Labels {
		style := labels.TextStyle[i]
		style.XAlign = xAlign(lb.Anchor)
		switch {
		case lb.Below:
			style.YAlign = text.YTop
		case lb.Kind == KindSide:
			style.YAlign = text.YBottom
		default:
			style.YAlign = text.YCenter
		}
		if lb.Kind == KindVertex {
			style.Color = vertexColor
			style.Font = font.From(plotter.DefaultFont, vg.Points(10))
		} else {
			style.Color = sideColor
			style.Font.Size = vg.Points(9)
		}
		labels.TextStyle[i] = style
	}
	return labels, nil
}

func xAlign(a Anchor) text.XAlignment {
	switch a {
	case AnchorLeft:
		return text.XLeft
	case AnchorRight:
		return text.XRight
	default:
		return text.XCenter
	}
}

// fitEqualAspect sets the axis ranges so one data unit has the same length
// on both axes for a canvas with the given width/height ratio.
func fitEqualAspect(p *plot.Plot, l Layout, ratio float64) {
	lo, hi := l.Bounds()
	spanX, spanY := hi.X-lo.X, hi.Y-lo.Y
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	spanX *= 1 + 2*plotPadding
	spanY *= 1 + 2*plotPadding

	if spanX/spanY < ratio {
		spanX = spanY * ratio
	} else {
		spanY = spanX / ratio
	}

	cx, cy := (lo.X+hi.X)/2, (lo.Y+hi.Y)/2
	p.X.Min, p.X.Max = cx-spanX/2, cx+spanX/2
	p.Y.Min, p.Y.Max = cy-spanY/2, cy+spanY/2
}
