package cache

import (
	"maps"
	"slices"
)

// Key prefixes.
const (
	prefixResult  = "result"
	prefixDiagram = "diagram"
)

// ResultKeyOpts are the options that change a cached response.
type ResultKeyOpts struct {
	Format   string  `json:"format"`
	Diagrams bool    `json:"diagrams"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// DiagramKeyOpts are the options that change a rendered diagram.
type DiagramKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey identifies the response for a canonical operation and its
	// fully defaulted parameters.
	ResultKey(op string, params map[string]string, opts ResultKeyOpts) string

	// DiagramKey identifies a rendered diagram by layout hash.
	DiagramKey(layoutHash string, opts DiagramKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey implements [Keyer]. Parameters are hashed in sorted key order.
func (DefaultKeyer) ResultKey(op string, params map[string]string, opts ResultKeyOpts) string {
	keys := slices.Sorted(maps.Keys(params))
	pairs := make([][2]string, len(keys))
	for i, k := range keys {
		pairs[i] = [2]string{k, params[k]}
	}
	return hashKey(prefixResult, op, pairs, opts)
}

// DiagramKey implements [Keyer].
func (DefaultKeyer) DiagramKey(layoutHash string, opts DiagramKeyOpts) string {
	return hashKey(prefixDiagram, layoutHash, opts)
}
