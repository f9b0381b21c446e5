// Package config loads the server's environment-driven settings and
// configures process logging.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvLogLevel    = "WHITEBOARD_MCP_LOG_LEVEL"
	EnvLogFile     = "WHITEBOARD_MCP_LOG_FILE"
	EnvConcurrency = "WHITEBOARD_MCP_CONCURRENCY"
	EnvJPEGQuality = "WHITEBOARD_MCP_JPEG_QUALITY"
	EnvOCRLanguage = "WHITEBOARD_MCP_OCR_LANGUAGE"
)

// Log levels.
const (
	LevelInfo  = "info"
	LevelDebug = "debug"
)

const (
	DefaultJPEGQuality = 92
	DefaultOCRLanguage = "eng"
)

// Config holds process-wide settings.
type Config struct {
	// LogLevel is "info" or "debug".
	LogLevel string

	// LogFile, when non-empty, redirects logs to a rotating file.
	LogFile string

	// Concurrency bounds the number of images enhanced at once in a batch.
	Concurrency int

	// JPEGQuality is used whenever a result is encoded as JPEG (1-100).
	JPEGQuality int

	// OCRLanguage is the Tesseract language used when a request names none.
	OCRLanguage string
}

// Default returns the configuration used when no environment variables are set.
func Default() Config {
	return Config{
		LogLevel:    LevelInfo,
		Concurrency: runtime.NumCPU(),
		JPEGQuality: DefaultJPEGQuality,
		OCRLanguage: DefaultOCRLanguage,
	}
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv, starting from Default.
// Unset or blank variables keep their defaults; malformed values are errors.
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		switch level := strings.ToLower(v); level {
		case LevelInfo, LevelDebug:
			cfg.LogLevel = level
		default:
			return cfg, fmt.Errorf("%s: unknown log level %q (want info or debug)", EnvLogLevel, v)
		}
	}

	cfg.LogFile = strings.TrimSpace(getenv(EnvLogFile))

	if v := strings.TrimSpace(getenv(EnvConcurrency)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvConcurrency, err)
		}
		if n < 1 {
			return cfg, fmt.Errorf("%s: must be at least 1, got %d", EnvConcurrency, n)
		}
		cfg.Concurrency = n
	}

	if v := strings.TrimSpace(getenv(EnvJPEGQuality)); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvJPEGQuality, err)
		}
		if q < 1 || q > 100 {
			return cfg, fmt.Errorf("%s: must be between 1 and 100, got %d", EnvJPEGQuality, q)
		}
		cfg.JPEGQuality = q
	}

	if v := strings.TrimSpace(getenv(EnvOCRLanguage)); v != "" {
		cfg.OCRLanguage = v
	}

	return cfg, nil
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == LevelDebug
}
