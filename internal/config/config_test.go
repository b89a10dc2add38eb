package config

import (
	"testing"
	"time"

	"github.com/dfirman/footscout/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FOOTSCOUT_DATA_ROOT", "/tmp/footscout-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CacheBackend != BackendFile {
		t.Fatalf("unexpected default backend: %q", cfg.CacheBackend)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected default HTTP timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.BoltPath != "/tmp/footscout-test/footscout.db" {
		t.Fatalf("bolt path should live under the data root, got %q", cfg.BoltPath)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected default log level: %v", cfg.LogLevel)
	}
}

func TestLoad_BackendValidation(t *testing.T) {
	t.Setenv("FOOTSCOUT_CACHE_BACKEND", "redis")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid FOOTSCOUT_CACHE_BACKEND")
	}
}

func TestLoad_DelayWindowValidation(t *testing.T) {
	t.Setenv("FOOTSCOUT_BACKFILL_MIN_DELAY", "10s")
	t.Setenv("FOOTSCOUT_BACKFILL_MAX_DELAY", "5s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when max delay is below min delay")
	}
}

func TestLoad_DurationParsing(t *testing.T) {
	t.Setenv("FOOTSCOUT_HTTP_TIMEOUT", "90s")
	t.Setenv("FOOTSCOUT_RATE_LIMIT_PAUSE", "2m")
	t.Setenv("FOOTSCOUT_FORCE_REFRESH", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPTimeout != 90*time.Second {
		t.Fatalf("unexpected HTTP timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.RateLimitPause != 2*time.Minute {
		t.Fatalf("unexpected rate limit pause: %s", cfg.RateLimitPause)
	}
	if !cfg.ForceRefresh {
		t.Fatalf("expected ForceRefresh=true")
	}
}
