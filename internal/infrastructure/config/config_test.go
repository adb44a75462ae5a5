package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "sources.yaml", cfg.Directory.SourceList)
	assert.Equal(t, "manifest.json", cfg.Directory.ManifestName)
	assert.Equal(t, "raw.githubusercontent.com", cfg.Directory.RawHost)
	assert.Equal(t, 30*time.Second, cfg.Directory.FetchTimeout)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SOURCE_LIST", "/etc/modboard/sources.yaml")
	t.Setenv("MANIFEST_NAME", "mod.json")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("LOG_DEV", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/etc/modboard/sources.yaml", cfg.Directory.SourceList)
	assert.Equal(t, "mod.json", cfg.Directory.ManifestName)
	assert.Equal(t, 5*time.Second, cfg.Directory.FetchTimeout)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadDefaultsApply(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "github.com", cfg.Directory.WebHost)
	assert.Equal(t, "master", cfg.Directory.DefaultBranch)
}
