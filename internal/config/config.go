// Package config reads runtime configuration from the environment. Every
// knob has a working default so a bare invocation runs against the real
// upstreams with a local file cache.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dfirman/footscout/internal/platform/logging"
)

const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

// Config stores runtime configuration for the tool.
type Config struct {
	DataRoot     string
	CacheBackend string
	BoltPath     string

	FotmobBaseURL        string
	TransfermarktBaseURL string
	HTTPTimeout          time.Duration

	BackfillMinDelay time.Duration
	BackfillMaxDelay time.Duration
	RateLimitPause   time.Duration

	ForceRefresh bool
	LogLevel     logging.Level
}

func Load() (Config, error) {
	dataRoot := getEnv("FOOTSCOUT_DATA_ROOT", defaultDataRoot())

	backend, err := parseBackend(getEnv("FOOTSCOUT_CACHE_BACKEND", BackendFile))
	if err != nil {
		return Config{}, err
	}

	httpTimeout, err := getEnvAsDuration("FOOTSCOUT_HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTSCOUT_HTTP_TIMEOUT: %w", err)
	}

	minDelay, err := getEnvAsDuration("FOOTSCOUT_BACKFILL_MIN_DELAY", 2*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTSCOUT_BACKFILL_MIN_DELAY: %w", err)
	}
	maxDelay, err := getEnvAsDuration("FOOTSCOUT_BACKFILL_MAX_DELAY", 6*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTSCOUT_BACKFILL_MAX_DELAY: %w", err)
	}
	if maxDelay < minDelay {
		return Config{}, fmt.Errorf("FOOTSCOUT_BACKFILL_MAX_DELAY %s is below FOOTSCOUT_BACKFILL_MIN_DELAY %s", maxDelay, minDelay)
	}

	rateLimitPause, err := getEnvAsDuration("FOOTSCOUT_RATE_LIMIT_PAUSE", 60*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTSCOUT_RATE_LIMIT_PAUSE: %w", err)
	}

	forceRefresh, err := strconv.ParseBool(getEnv("FOOTSCOUT_FORCE_REFRESH", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTSCOUT_FORCE_REFRESH: %w", err)
	}

	return Config{
		DataRoot:             dataRoot,
		CacheBackend:         backend,
		BoltPath:             getEnv("FOOTSCOUT_BOLT_PATH", filepath.Join(dataRoot, "footscout.db")),
		FotmobBaseURL:        getEnv("FOOTSCOUT_FOTMOB_BASE_URL", ""),
		TransfermarktBaseURL: getEnv("FOOTSCOUT_TRANSFERMARKT_BASE_URL", ""),
		HTTPTimeout:          httpTimeout,
		BackfillMinDelay:     minDelay,
		BackfillMaxDelay:     maxDelay,
		RateLimitPause:       rateLimitPause,
		ForceRefresh:         forceRefresh,
		LogLevel:             logging.ParseLevel(getEnv("FOOTSCOUT_LOG_LEVEL", "info")),
	}, nil
}

func defaultDataRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".footscout")
}

func parseBackend(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case BackendFile, BackendBolt:
		return value, nil
	default:
		return "", fmt.Errorf("invalid FOOTSCOUT_CACHE_BACKEND %q: valid values are %s, %s", v, BackendFile, BackendBolt)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}
