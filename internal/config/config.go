package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	// NOTE: Default port is 8111 to avoid conflicts with other projects (not 8080)
	Port           string
	Env            string
	UseMemoryStore bool
	SkipAuth       bool
	ProjectID      string
	LogLevel       string
	LogFormat      string
	QueryTimeout   time.Duration
	LookbackMonths int
	Currency       string
	// DigestSchedule is a standard five-field cron spec. Empty disables the digest job.
	DigestSchedule string
	AllowedOrigins []string
}

var defaultOrigins = []string{
	"http://localhost:1234",
	"http://127.0.0.1:1234",
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8111"),
		Env:            getEnv("ENV", "production"),
		SkipAuth:       getEnv("SKIP_AUTH", "false") == "true",
		ProjectID:      getEnv("GOOGLE_CLOUD_PROJECT", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", ""),
		Currency:       strings.ToUpper(getEnv("CURRENCY", "KES")),
		DigestSchedule: getEnv("DIGEST_SCHEDULE", "0 6 * * *"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
	}
	cfg.UseMemoryStore = getEnv("USE_MEMORY_STORE", "false") == "true" || cfg.Env == "local"
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
		if cfg.Env == "local" {
			cfg.LogFormat = "text"
		}
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = defaultOrigins
	}

	var err error
	cfg.QueryTimeout, err = time.ParseDuration(getEnv("QUERY_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("QUERY_TIMEOUT: %w", err)
	}
	if cfg.QueryTimeout <= 0 {
		return nil, fmt.Errorf("QUERY_TIMEOUT must be positive")
	}

	cfg.LookbackMonths, err = strconv.Atoi(getEnv("LOOKBACK_MONTHS", "12"))
	if err != nil {
		return nil, fmt.Errorf("LOOKBACK_MONTHS: %w", err)
	}
	if cfg.LookbackMonths < 3 {
		return nil, fmt.Errorf("LOOKBACK_MONTHS must be at least 3, got %d", cfg.LookbackMonths)
	}

	if cfg.DigestSchedule != "" {
		if _, err := cron.ParseStandard(cfg.DigestSchedule); err != nil {
			return nil, fmt.Errorf("DIGEST_SCHEDULE: %w", err)
		}
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	if !cfg.UseMemoryStore && cfg.ProjectID == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT is required when USE_MEMORY_STORE is not set")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
