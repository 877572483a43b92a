package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Output formats accepted by OUTPUT_FORMAT.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

type Config struct {
	// Batch mode
	InputDir        string
	OutputDir       string
	InputExtensions []string
	OutputFormat    string

	// Service mode
	Port           string
	OutlineAPIKey  string
	MaxUploadBytes int64

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state
	JobTTL time.Duration

	LogLevel slog.Level
}

func Load() Config {
	cfg := Config{
		InputDir:        envOr("INPUT_DIR", "/app/input"),
		OutputDir:       envOr("OUTPUT_DIR", "/app/output"),
		InputExtensions: envList("INPUT_EXTENSIONS", []string{".pdf"}),
		OutputFormat:    strings.ToLower(envOr("OUTPUT_FORMAT", FormatJSON)),

		Port:           envOr("PORT", "8090"),
		OutlineAPIKey:  os.Getenv("OUTLINE_API_KEY"),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		WorkerCount:  envInt("WORKER_COUNT", runtime.NumCPU()),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = runtime.NumCPU()
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	for i, ext := range cfg.InputExtensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.InputExtensions[i] = ext
	}

	return cfg
}

// ValidateBatch checks the settings used by the batch driver.
func (c Config) ValidateBatch() error {
	if c.InputDir == "" {
		return fmt.Errorf("INPUT_DIR is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if len(c.InputExtensions) == 0 {
		return fmt.Errorf("INPUT_EXTENSIONS must name at least one extension")
	}
	return c.validateFormat()
}

// ValidateServer checks the settings used by the HTTP service.
func (c Config) ValidateServer() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	return c.validateFormat()
}

func (c Config) validateFormat() error {
	switch c.OutputFormat {
	case FormatJSON, FormatMarkdown:
		return nil
	}
	return fmt.Errorf("OUTPUT_FORMAT must be %q or %q, got %q", FormatJSON, FormatMarkdown, c.OutputFormat)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty items.
func envList(key string, fallback []string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}
