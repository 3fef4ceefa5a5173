package calc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/geotrig/pkg/cache"
	"github.com/matzehuels/geotrig/pkg/diagram"
	"github.com/matzehuels/geotrig/pkg/history"
	"github.com/matzehuels/geotrig/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeResult  = "result"
	keyTypeDiagram = "diagram"
)

// Runner executes calculator requests with caching and history.
//
// The Runner holds no per-request state. Multiple goroutines can safely use
// the same Runner.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	History history.Store
	Logger  *log.Logger
	TTL     time.Duration // cache entry lifetime
}

// NewRunner creates a runner. A nil cache disables caching, a nil store
// disables history and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, store history.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if store == nil {
		store = history.NullStore{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		History: store,
		Logger:  logger,
		TTL:     cache.DefaultTTL,
	}
}

// Execute runs one request through every stage. Errors are coded (see
// pkg/errors); pass them to [ErrorResponse] for display.
func (r *Runner) Execute(ctx context.Context, req Request, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// Stage 1: Normalize
	op, err := Lookup(req.Module, req.Operation)
	if err != nil {
		return nil, err
	}
	params, err := op.Normalize(req.Params)
	if err != nil {
		return nil, err
	}

	// Stage 2-3: Key and cache lookup
	key := r.Keyer.ResultKey(op.Name, params, opts.ResultKeyOpts())
	results := cache.Instrumented(r.Cache, keyTypeResult)
	if resp, ok := r.lookup(ctx, results, key); ok {
		resp.ID = uuid.NewString()
		r.Logger.Debug("result cache hit", "op", op.Name)
		r.record(ctx, op, params, resp)
		return &Result{Response: resp, CacheHit: true}, nil
	}

	result := &Result{}

	// Stage 4: Compute
	computeStart := time.Now()
	observability.Calc().OnComputeStart(ctx, op.Module, op.Name)
	out, err := op.compute(params)
	result.Stats.ComputeTime = time.Since(computeStart)
	observability.Calc().OnComputeComplete(ctx, op.Module, op.Name, result.Stats.ComputeTime, err)
	if err != nil {
		r.Logger.Debug("compute failed", "op", op.Name, "error", err)
		return nil, err
	}
	r.Logger.Info("computed",
		"module", op.Module,
		"op", op.Name,
		"duration", result.Stats.ComputeTime)

	resp := Response{
		ID:        uuid.NewString(),
		Module:    op.Module,
		Operation: op.Name,
		Result:    out.Result,
		Matrix:    out.Matrix,
		Steps:     out.Steps,
		Status:    out.Status,
		Error:     out.Error,
	}
	if out.Status != "" {
		resp.StatusClass = StatusSuccess
		if out.Warning {
			resp.StatusClass = StatusWarning
		}
	}

	// Stage 5: Render
	cacheable := true
	if !opts.SkipDiagrams && len(out.Solutions) > 0 {
		layouts := diagram.Layouts(out.Solutions)
		resp.Diagrams = layouts

		renderStart := time.Now()
		artifacts, hit, err := r.RenderWithCacheInfo(ctx, layouts, opts)
		result.Stats.RenderTime = time.Since(renderStart)
		if err != nil {
			// The calculation stands without its diagrams.
			r.Logger.Warn("diagram rendering failed", "op", op.Name, "format", opts.Format, "error", err)
			cacheable = false
		} else {
			resp.Images = encodeImages(artifacts)
			resp.ImageType = diagram.ContentType(opts.Format)
			result.Stats.Diagrams = len(artifacts)
			result.Stats.DiagramHit = hit
			r.Logger.Debug("rendered diagrams",
				"count", len(artifacts),
				"format", opts.Format,
				"duration", result.Stats.RenderTime)
		}
	}

	// Stage 6: Cache store, skipped when diagrams are missing so the next
	// request retries the render
	if cacheable {
		if data, err := cache.Encode(resp); err != nil {
			r.Logger.Warn("encode response", "error", err)
		} else if err := results.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache store failed", "error", err)
		}
	}

	// Stage 7: History
	r.record(ctx, op, params, resp)

	result.Response = resp
	return result, nil
}

// RenderWithCacheInfo renders layouts, reusing cached diagrams when every one
// of them is cached. It reports whether the cache served all of them.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layouts []diagram.Layout, opts Options) ([][]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	diagrams := cache.Instrumented(r.Cache, keyTypeDiagram)

	keys := make([]string, len(layouts))
	out := make([][]byte, len(layouts))
	allCached := true
	for i, l := range layouts {
		keys[i] = r.Keyer.DiagramKey(l.Hash(), opts.DiagramKeyOpts())
		if allCached {
			data, hit, err := diagrams.Get(ctx, keys[i])
			if err != nil || !hit {
				allCached = false
				continue
			}
			out[i] = data
		}
	}
	if allCached {
		return out, true, nil
	}

	observability.Calc().OnRenderStart(ctx, opts.Format, len(layouts))
	start := time.Now()
	rendered, err := diagram.RenderAll(ctx, layouts, opts.Format, opts.renderOptions())
	observability.Calc().OnRenderComplete(ctx, opts.Format, len(layouts), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for i, data := range rendered {
		if err := diagrams.Set(ctx, keys[i], data, r.TTL); err != nil {
			r.Logger.Warn("cache store failed", "error", err)
			break
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layouts []diagram.Layout, opts Options) ([][]byte, error) {
	out, _, err := r.RenderWithCacheInfo(ctx, layouts, opts)
	return out, err
}

// Recent returns the latest history records.
func (r *Runner) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	return r.History.Recent(ctx, limit)
}

// Close releases the cache and the history store.
func (r *Runner) Close(ctx context.Context) error {
	var errs []error
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if r.History != nil {
		if err := r.History.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close history: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) lookup(ctx context.Context, c cache.Cache, key string) (Response, bool) {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "error", err)
		return Response{}, false
	}
	if !hit {
		return Response{}, false
	}
	var resp Response
	if err := cache.Decode(data, &resp); err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "error", err)
		return Response{}, false
	}
	return resp, true
}

func (r *Runner) record(ctx context.Context, op *Operation, params map[string]string, resp Response) {
	rec := history.NewRecord(op.Module, op.Name, params)
	rec.Result = resp.Result
	rec.Status = resp.Status
	rec.Error = resp.Error
	if err := r.History.Add(ctx, rec); err != nil {
		r.Logger.Warn("history append failed", "error", err)
	}
}

func encodeImages(artifacts [][]byte) []string {
	out := make([]string, len(artifacts))
	for i, data := range artifacts {
		out[i] = base64.StdEncoding.EncodeToString(data)
	}
	return out
}
