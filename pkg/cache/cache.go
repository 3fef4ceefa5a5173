// Package cache stores computed calculator responses and rendered diagrams.
//
// # Backends
//
//   - [MemoryCache]: in-process expirable LRU, the default for `geotrig serve`
//   - [FileCache]: sharded files on disk, shared by CLI runs
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: caching disabled
//
// All backends store opaque bytes. Calculator responses are serialized with
// [Encode] (msgpack, zstd-compressed) before they are stored.
//
// # Keys
//
// Keys are produced by a [Keyer] so that equivalent requests map to the same
// entry regardless of alias or parameter order. [ScopedKeyer] prefixes every
// key, which lets several deployments share one Redis database.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by [New].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Defaults.
const (
	DefaultTTL  = 24 * time.Hour
	DefaultSize = 512
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	Dir     string        // file backend directory
	Size    int           // memory backend capacity
	TTL     time.Duration // memory backend default expiry

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New opens the backend named by cfg.Backend.
func New(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryCache(cfg.Size, cfg.TTL), nil
	case BackendFile:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultDir(); err != nil {
				return nil, err
			}
		}
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case BackendRedis:
		rc, err := NewRedisCache(ctx, RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}
