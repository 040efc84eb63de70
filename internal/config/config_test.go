package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "offline", cfg.Planner.Provider)
	assert.Equal(t, 5, cfg.Campaign.DefaultMaxSteps)
	assert.Equal(t, "30s", cfg.Script.Timeout)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9999"
planner:
  provider: gemini
  model: gemini-2.0-flash
rules:
  path: custom-rules.yaml
  watch: true
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "gemini", cfg.Planner.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Planner.Model)
	assert.Equal(t, "custom-rules.yaml", cfg.Rules.Path)
	assert.True(t, cfg.Rules.Watch)

	// Untouched sections keep their defaults.
	assert.Equal(t, 5, cfg.Campaign.DefaultMaxSteps)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesEnableGemini(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MMSS_ADDR", ":7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Planner.Provider)
	assert.Equal(t, "test-key", cfg.Planner.APIKey)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Server.Addr = ":4242"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":4242", loaded.Server.Addr)
}
