package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string

	// Inference collaborator (OpenAI-compatible chat completions gateway).
	InferenceURL     string
	InferenceAPIKey  string
	InferenceModel   string
	InferenceTimeout time.Duration

	// Pacing delay between synthetic attacks inside a simulation run.
	SimulationStepDelay time.Duration
	// Optional cron spec for scheduled simulation drills. Empty disables.
	SimulationSchedule string
	// Scenario name used by scheduled drills.
	SimulationDrill string
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:         getEnv("DECOY_ENV", "development"),
		HTTPPort:            getEnv("DECOY_HTTP_PORT", "8080"),
		DatabasePath:        getEnv("DECOY_DB_PATH", filepath.Join("data", "decoynet.db")),
		InferenceURL:        getEnv("DECOY_INFERENCE_URL", "https://ai.gateway.lovable.dev/v1/chat/completions"),
		InferenceAPIKey:     getEnv("DECOY_INFERENCE_API_KEY", ""),
		InferenceModel:      getEnv("DECOY_INFERENCE_MODEL", "google/gemini-2.5-flash"),
		InferenceTimeout:    getDuration("DECOY_INFERENCE_TIMEOUT", 30*time.Second),
		SimulationStepDelay: getDuration("DECOY_SIM_STEP_DELAY", 200*time.Millisecond),
		SimulationSchedule:  getEnv("DECOY_SIM_SCHEDULE", ""),
		SimulationDrill:     getEnv("DECOY_SIM_DRILL", "Brute Force Attack"),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	// Bare integers are treated as seconds.
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
