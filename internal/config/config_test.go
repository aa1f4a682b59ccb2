package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
hub:
  host: 192.168.1.50
  secret: abc123
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.50", cfg.Hub.Host)
	assert.Equal(t, "abc123", cfg.Hub.Secret)
	assert.Equal(t, "metric", cfg.Hub.Units)
	assert.Equal(t, 15*time.Second, cfg.Hub.Timeout.Duration())
	assert.Equal(t, 2*time.Second, cfg.Discovery.MinSearchTime.Duration())
	assert.Equal(t, 10*time.Second, cfg.Discovery.MaxSearchTime.Duration())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Output.Directory)
}

func TestLoadParsesDurations(t *testing.T) {
	path := writeConfig(t, `
hub:
  secret: abc
  timeout: 5s
discovery:
  min_search_time: 1s
  max_search_time: 3s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Hub.Timeout.Duration())
	assert.Equal(t, time.Second, cfg.Discovery.MinSearchTime.Duration())
	assert.Equal(t, 3*time.Second, cfg.Discovery.MaxSearchTime.Duration())
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_WISER_KEY", "from-env")
	path := writeConfig(t, `
hub:
  secret: ${TEST_WISER_KEY}
  units: ${TEST_WISER_UNITS:imperial}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Hub.Secret)
	assert.Equal(t, "imperial", cfg.Hub.Units)
}

func TestSecretFallsBackToEnvironment(t *testing.T) {
	t.Setenv("WISER_SECRET", "env-secret")
	path := writeConfig(t, "hub:\n  host: 1.2.3.4\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Hub.Secret)
}
