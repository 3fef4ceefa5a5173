// Package pkg provides the libraries behind geotrig, a 2D geometry and
// triangle trigonometry calculator.
//
// # Overview
//
// Geotrig applies affine transformations to points and solves triangles,
// explaining each result step by step. The pkg directory is organized into
// three areas:
//
//  1. Formulas - [expr], [geom], [trig] and [explain]
//  2. Presentation - [diagram] draws solved triangles
//  3. Orchestration - [calc], [cache], [history], [server] and [config]
//
// # Architecture
//
// The data flow for one request:
//
//	{module, operation, params}
//	         ↓
//	    [calc] registry (aliases, defaults, choices)
//	         ↓
//	    [cache] lookup (msgpack + zstd)
//	         ↓
//	    [expr] → [geom] / [trig] (result, matrix, steps)
//	         ↓
//	    [diagram] (PNG, PDF, SVG, DOT, JSON)
//	         ↓
//	    [history] record
//
// # Quick Start
//
// Rotate a point with the formula packages directly:
//
//	r := geom.Rotate(geom.Point{X: 2, Y: 3}, 90, geom.Point{})
//	fmt.Println(r.Point) // (-3, 2)
//
// Or run a request through the calculator with caching:
//
//	runner := calc.NewRunner(cache.NewMemoryCache(0, 0), nil, nil, logger)
//	res, err := runner.Execute(ctx, calc.Request{
//	    Module:    calc.ModuleTrig,
//	    Operation: "law_of_cosines",
//	    Params:    map[string]string{"find": "side", "a": "3", "b": "4", "C": "90"},
//	}, calc.Options{Format: diagram.FormatSVG})
//
// # Main Packages
//
// [expr] - Safe evaluation of numeric input such as "sqrt(2)/2" or "pi/4".
//
// [geom] - Translation, reflection, rotation, dilation and inverse matrices
// with gonum.
//
// [trig] - Law of sines, the ambiguous SSA case, law of cosines, area and SSS.
//
// [explain] - Number and matrix formatting shared by worked steps.
//
// [diagram] - Triangle layouts rendered with gonum/plot, native SVG or
// Graphviz.
//
// [calc] - Operation registry and the cached runner used by the CLI and the
// HTTP server.
//
// [cache] - Memory, file and Redis byte caches with scoped keys.
//
// [history] - Recent calculations in memory or MongoDB.
//
// [server] - The chi HTTP server behind the browser page.
//
// # Testing
//
//	go test ./...                        # Unit tests
//	go test -tags integration ./pkg/...  # Redis and MongoDB, see GEOTRIG_REDIS_ADDR and GEOTRIG_MONGO_URI
package pkg
