package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DECOY_DB_PATH", filepath.Join(dir, "decoynet.db"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.InferenceTimeout)
	assert.Equal(t, 200*time.Millisecond, cfg.SimulationStepDelay)
	assert.Empty(t, cfg.SimulationSchedule)
	assert.Equal(t, "Brute Force Attack", cfg.SimulationDrill)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DECOY_DB_PATH", filepath.Join(dir, "decoynet.db"))
	t.Setenv("DECOY_ENV", "production")
	t.Setenv("DECOY_HTTP_PORT", "9090")
	t.Setenv("DECOY_INFERENCE_TIMEOUT", "10s")
	t.Setenv("DECOY_SIM_STEP_DELAY", "0s")
	t.Setenv("DECOY_SIM_SCHEDULE", "@hourly")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 10*time.Second, cfg.InferenceTimeout)
	assert.Equal(t, time.Duration(0), cfg.SimulationStepDelay)
	assert.Equal(t, "@hourly", cfg.SimulationSchedule)
}

func TestGetDurationBareSeconds(t *testing.T) {
	t.Setenv("DECOY_TEST_DURATION", "45")
	assert.Equal(t, 45*time.Second, getDuration("DECOY_TEST_DURATION", time.Second))

	t.Setenv("DECOY_TEST_DURATION", "garbage")
	assert.Equal(t, time.Second, getDuration("DECOY_TEST_DURATION", time.Second))
}
