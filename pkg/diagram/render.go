package diagram

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/geotrig/pkg/errors"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Defaults.
const (
	DefaultFormat = FormatPNG
	DefaultWidth  = 6.0 // inches
	DefaultHeight = 4.5 // inches
)

// ValidFormats lists the accepted output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatPDF:  true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

var contentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatSVG:  "image/svg+xml",
	FormatDOT:  "image/svg+xml",
	FormatJSON: "application/json",
}

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Extension returns the file extension for a rendered format.
func Extension(format string) string {
	if format == FormatDOT {
		return ".dot.svg"
	}
	return "." + format
}

// Options configures rendering.
type Options struct {
	Width  float64 // inches
	Height float64 // inches
}

// SetDefaults fills zero sizes.
func (o *Options) SetDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram format %q (use png, pdf, svg, dot or json)", format)
	}
	return nil
}

// Render draws one layout in the given format.
func Render(ctx context.Context, l Layout, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts.SetDefaults()

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatPNG, FormatPDF:
		data, err = RenderPlot(l, format, opts)
	case FormatSVG:
		data = RenderSVG(l, WithSize(opts.Width*pxPerInch, opts.Height*pxPerInch))
	case FormatDOT:
		data, err = RenderDOT(ctx, ToDOT(l))
	case FormatJSON:
		data, err = json.MarshalIndent(l, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

// RenderAll renders every layout concurrently. The output slice is in input
// order; the first error cancels the rest.
func RenderAll(ctx context.Context, layouts []Layout, format string, opts Options) ([][]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	out := make([][]byte, len(layouts))
	g, ctx := errgroup.WithContext(ctx)
	for i, l := range layouts {
		g.Go(func() error {
			data, err := Render(ctx, l, format, opts)
			if err != nil {
				return fmt.Errorf("diagram %d: %w", i+1, err)
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
