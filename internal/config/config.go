// Package config provides configuration for the token check service and its upstream clients
package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort int

	// Upstream providers; empty means the client default
	GoPlusBaseURL      string
	DexScreenerBaseURL string
	UpstreamTimeout    time.Duration

	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration
}

// Load reads a .env file when present, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		GoPlusBaseURL:      getEnv("GOPLUS_BASE_URL", ""),
		DexScreenerBaseURL: getEnv("DEXSCREENER_BASE_URL", ""),
		UpstreamTimeout:    getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// NewLogger builds a slog.Logger writing to w in the configured format and level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}

	var handler slog.Handler
	switch strings.ToLower(c.LogFormat) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if i, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return i
	}
	return defaultVal
}

// getEnvDuration accepts Go durations ("15s") or bare seconds ("15").
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
