// Package config loads runtime configuration from the environment, the
// only configuration surface spec.md §6 allows for the core.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every setting the generation graph and its store/LLM
// clients need at startup.
type Config struct {
	// LLM
	OpenAIAPIKey string
	OpenAIModel  string

	// Datastore
	DatabaseDSN string

	// Ambient
	LogLevel   string
	LogFormat  string // "json" | "console"
	RunTimeout time.Duration

	// Tracing (optional, per spec.md §6)
	TracingEnabled  bool
	TracingProject  string
	TracingEndpoint string
}

// Load reads configuration from the environment, applying the same
// fallback-default discipline as the teacher's config.Load.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o"),
		DatabaseDSN:     os.Getenv("DATABASE_DSN"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		TracingEnabled:  getEnvBool("TRACING_ENABLED", false),
		TracingProject:  os.Getenv("TRACING_PROJECT"),
		TracingEndpoint: os.Getenv("TRACING_ENDPOINT"),
	}

	timeoutMinutes := getEnvInt("RUN_TIMEOUT_MINUTES", 60)
	cfg.RunTimeout = time.Duration(timeoutMinutes) * time.Minute

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
