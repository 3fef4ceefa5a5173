package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// versions can share one backend without colliding.
//
// Example usage:
//
//	// Invalidate all entries on upgrade
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v"+buildinfo.Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey generates a prefixed key for response caching.
func (k *ScopedKeyer) ResultKey(op string, params map[string]string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(op, params, opts)
}

// DiagramKey generates a prefixed key for diagram caching.
func (k *ScopedKeyer) DiagramKey(layoutHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(layoutHash, opts)
}
