package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultAddr    = ":8080"
	DefaultMaxBody = 16 << 20
	DefaultEnv     = "development"
)

// Config contains configuration for the chartscale HTTP service
type Config struct {
	Addr           string   // Listen address for the HTTP service
	MaxBody        int64    // Largest accepted request body, in bytes
	AllowedOrigins []string // CORS origins allowed to call the service
	SentryDSN      string   // Sentry DSN (optional)
	Environment    string   // Environment name reported to Sentry
}

// Default returns the configuration used when no environment variables are set.
func Default() Config {
	return Config{
		Addr:           DefaultAddr,
		MaxBody:        DefaultMaxBody,
		AllowedOrigins: []string{"*"},
		Environment:    DefaultEnv,
	}
}

// Load reads the configuration from the environment, starting from Default.
func Load() (Config, error) {
	cfg := Default()

	if addr := os.Getenv("CHARTSCALE_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if raw := os.Getenv("CHARTSCALE_MAX_BODY"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("CHARTSCALE_MAX_BODY must be a positive number of bytes, got %q", raw)
		}
		cfg.MaxBody = n
	}
	if raw := os.Getenv("CHARTSCALE_ALLOWED_ORIGINS"); raw != "" {
		var origins []string
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}
	cfg.SentryDSN = os.Getenv("SENTRY_DSN")
	if env := os.Getenv("CHARTSCALE_ENV"); env != "" {
		cfg.Environment = env
	}

	return cfg, nil
}
