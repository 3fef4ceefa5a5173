package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:5000" {
		t.Errorf("Server.Addr = %s", cfg.Server.Addr)
	}
	if cfg.Cache.TTL.Std() != 24*time.Hour {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL.Std())
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load(missing) = %v", err)
	}
	if cfg.History.Limit != Default().History.Limit {
		t.Errorf("missing file should yield defaults")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = "0.0.0.0:8080"
open_browser = false
shutdown_timeout = "2s"

[cache]
backend = "file"
dir = "/tmp/geotrig"
ttl = "90m"

[diagram]
format = "svg"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != "0.0.0.0:8080" || cfg.Server.OpenBrowser {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.ShutdownTimeout.Std() != 2*time.Second {
		t.Errorf("shutdown_timeout = %v", cfg.Server.ShutdownTimeout.Std())
	}
	// Unset keys keep their defaults
	if cfg.Server.ReadTimeout.Std() != 10*time.Second {
		t.Errorf("read_timeout = %v", cfg.Server.ReadTimeout.Std())
	}
	cc := cfg.CacheConfig()
	if cc.Backend != "file" || cc.Dir != "/tmp/geotrig" || cc.TTL != 90*time.Minute {
		t.Errorf("CacheConfig() = %+v", cc)
	}
	if cfg.Diagram.Format != "svg" || cfg.Diagram.Width != 6 {
		t.Errorf("diagram = %+v", cfg.Diagram)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[server\naddr=", "config"},
		{"bad duration", "[server]\nread_timeout = \"soon\"", "invalid duration"},
		{"unknown key", "[server]\nport = 80", "unknown key"},
		{"bad cache backend", "[cache]\nbackend = \"memcached\"", "cache.backend"},
		{"redis without addr", "[cache]\nbackend = \"redis\"", "redis_addr"},
		{"mongo without uri", "[history]\nbackend = \"mongo\"", "mongo_uri"},
		{"bad format", "[diagram]\nformat = \"gif\"", "diagram.format"},
		{"bad level", "[log]\nlevel = \"loud\"", "log.level"},
		{"bad size", "[diagram]\nwidth = 0.0", "positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/xdg", "geotrig", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %s, want %s", got, want)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1h30m")); err != nil {
		t.Fatal(err)
	}
	out, _ := d.MarshalText()
	if string(out) != "1h30m0s" {
		t.Errorf("MarshalText = %s", out)
	}
}
