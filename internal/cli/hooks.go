package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geotrig/pkg/observability"
)

// logHooks reports calculation and cache events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnComputeStart(ctx context.Context, module, op string) {
	h.logger.Debug("compute start", "module", module, "op", op)
}

func (h *logHooks) OnComputeComplete(ctx context.Context, module, op string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("compute failed", "module", module, "op", op, "duration", d, "error", err)
		return
	}
	h.logger.Debug("compute done", "module", module, "op", op, "duration", d)
}

func (h *logHooks) OnRenderStart(ctx context.Context, format string, diagrams int) {
	h.logger.Debug("render start", "format", format, "diagrams", diagrams)
}

func (h *logHooks) OnRenderComplete(ctx context.Context, format string, diagrams int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "duration", d, "error", err)
		return
	}
	h.logger.Debug("render done", "format", format, "diagrams", diagrams, "duration", d)
}

func (h *logHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.CalcHooks  = (*logHooks)(nil)
	_ observability.CacheHooks = (*logHooks)(nil)
)
