//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCacheIntegration(t *testing.T) {
	addr := os.Getenv("GEOTRIG_REDIS_ADDR")
	if addr == "" {
		t.Skip("GEOTRIG_REDIS_ADDR not set")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	exerciseCache(t, c)

	if err := c.Set(ctx, "geotrig:test:ttl", []byte("x"), time.Second); err != nil {
		t.Fatal(err)
	}
	time.Sleep(1500 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "geotrig:test:ttl"); hit {
		t.Error("entry should have expired")
	}
}
