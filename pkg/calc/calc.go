// Package calc turns calculator requests into explained results.
//
// This package is the request-handling core shared by the HTTP server and
// the CLI. A [Request] names a module ("geo" or "trig"), an operation and its
// raw string parameters. The [Runner] resolves the operation from the
// registry, evaluates the parameters, runs the formula and renders triangle
// diagrams, consulting the result cache and recording history on the way.
//
// # Stages
//
//  1. Normalize: resolve aliases and apply parameter defaults
//  2. Key: hash the canonical request and the options
//  3. Cache lookup
//  4. Compute: evaluate inputs and run the formula
//  5. Render: draw one diagram per solved triangle
//  6. Cache store
//  7. History
//
// Cache and history failures are logged and never fail a request.
//
// # Usage
//
//	runner := calc.NewRunner(cache.NewMemoryCache(0, 0), nil, nil, logger)
//	res, err := runner.Execute(ctx, calc.Request{
//	    Module:    "geo",
//	    Operation: "rotate",
//	    Params:    map[string]string{"px": "2", "py": "3", "angle": "90"},
//	}, calc.Options{})
//	if err != nil {
//	    resp := calc.ErrorResponse(err)
//	    ...
//	}
//	fmt.Println(res.Response.Result) // [P'(-3, 2)]
package calc

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/geotrig/pkg/cache"
	"github.com/matzehuels/geotrig/pkg/diagram"
	"github.com/matzehuels/geotrig/pkg/errors"
	"github.com/matzehuels/geotrig/pkg/explain"
)

// Modules.
const (
	ModuleGeo  = "geo"
	ModuleTrig = "trig"
)

// Status classes understood by the page.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
)

// ErrorColor is the colour the page uses for error messages.
const ErrorColor = "#ef4444"

// =============================================================================
// Request
// =============================================================================

// Request is one calculator submission. On the wire it is a flat JSON object:
//
//	{"module": "geo", "operation": "rotate", "px": "2", "py": "3", "angle": "90"}
//
// Every field other than module and operation is a parameter. Numbers and
// booleans are accepted and kept in their JSON text form.
type Request struct {
	Module    string
	Operation string
	Params    map[string]string
}

// UnmarshalJSON decodes the flat payload.
func (r *Request) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	*r = Request{Params: make(map[string]string, len(raw))}
	for k, v := range raw {
		var s string
		switch v := v.(type) {
		case nil:
			continue
		case string:
			s = v
		case json.Number:
			s = v.String()
		case bool:
			s = fmt.Sprint(v)
		default:
			return fmt.Errorf("field %s: expected a string or number", k)
		}
		switch k {
		case "module":
			r.Module = s
		case "operation":
			r.Operation = s
		default:
			r.Params[k] = s
		}
	}
	return nil
}

// MarshalJSON encodes the flat payload.
func (r Request) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(r.Params)+2)
	for k, v := range r.Params {
		out[k] = v
	}
	if r.Module != "" {
		out["module"] = r.Module
	}
	out["operation"] = r.Operation
	return json.Marshal(out)
}

// =============================================================================
// Response
// =============================================================================

// Response is what the page renders. Exactly one of Result or Error is set,
// except for a singular matrix, which carries both an error and its steps.
type Response struct {
	ID          string           `json:"id,omitempty" msgpack:"-"`
	Module      string           `json:"module,omitempty" msgpack:"module"`
	Operation   string           `json:"operation,omitempty" msgpack:"operation"`
	Result      []string         `json:"result,omitempty" msgpack:"result"`
	Matrix      string           `json:"matrix,omitempty" msgpack:"matrix"`
	Steps       []explain.Step   `json:"steps,omitempty" msgpack:"steps"`
	Status      string           `json:"status,omitempty" msgpack:"status"`
	StatusClass string           `json:"status_class,omitempty" msgpack:"status_class"`
	Images      []string         `json:"images,omitempty" msgpack:"images"`
	ImageType   string           `json:"image_type,omitempty" msgpack:"image_type"`
	Diagrams    []diagram.Layout `json:"diagrams,omitempty" msgpack:"diagrams"`
	Error       string           `json:"error,omitempty" msgpack:"error"`
	Color       string           `json:"color,omitempty" msgpack:"color"`
}

// Artifacts decodes the rendered diagrams.
func (r *Response) Artifacts() ([][]byte, error) {
	out := make([][]byte, len(r.Images))
	for i, img := range r.Images {
		data, err := base64.StdEncoding.DecodeString(img)
		if err != nil {
			return nil, fmt.Errorf("diagram %d: %w", i+1, err)
		}
		out[i] = data
	}
	return out, nil
}

// ErrorResponse converts a failed Execute into the response shown on the
// page. Unknown modules and operations get the bare "invalid operation"
// message; every other failure is shown in the error colour.
func ErrorResponse(err error) Response {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidModule, errors.ErrCodeInvalidOperation:
		return Response{Error: "invalid operation"}
	}
	return Response{Error: errors.Display(err), Color: ErrorColor}
}

// =============================================================================
// Options
// =============================================================================

// Options controls diagram rendering.
type Options struct {
	Format       string  `json:"format,omitempty"`
	SkipDiagrams bool    `json:"skip_diagrams,omitempty"`
	Width        float64 `json:"width,omitempty"`  // inches
	Height       float64 `json:"height,omitempty"` // inches
}

// SetDefaults fills the zero values.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = diagram.DefaultFormat
	}
	if o.Width <= 0 {
		o.Width = diagram.DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = diagram.DefaultHeight
	}
}

// Validate applies defaults and checks the format.
func (o *Options) Validate() error {
	o.SetDefaults()
	return diagram.ValidateFormat(o.Format)
}

// ResultKeyOpts returns the cache key options for a response.
func (o Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Format:   o.Format,
		Diagrams: !o.SkipDiagrams,
		Width:    o.Width,
		Height:   o.Height,
	}
}

// DiagramKeyOpts returns the cache key options for one rendered diagram.
func (o Options) DiagramKeyOpts() cache.DiagramKeyOpts {
	return cache.DiagramKeyOpts{Format: o.Format, Width: o.Width, Height: o.Height}
}

func (o Options) renderOptions() diagram.Options {
	return diagram.Options{Width: o.Width, Height: o.Height}
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of [Runner.Execute].
type Result struct {
	Response Response
	Stats    Stats
	CacheHit bool // response came from the result cache
}

// Stats holds per-stage timings.
type Stats struct {
	ComputeTime time.Duration
	RenderTime  time.Duration
	Diagrams    int
	DiagramHit  bool // every diagram came from the cache
}
