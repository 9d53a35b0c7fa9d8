package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.ferris.chat/v0", cfg.API.BaseURL)
	assert.NotEmpty(t, cfg.API.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.HTTP.MaxAttempts)
	assert.Equal(t, 1000, cfg.Cache.MaxMessages)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoadBytesOverridesDefaults(t *testing.T) {
	raw := []byte(`
api:
  base_url: https://staging.ferris.chat/v0
http:
  timeout: 5s
  max_attempts: 2
log:
  level: debug
  pretty: true
`)
	cfg, err := LoadBytes(raw)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.ferris.chat/v0", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.MaxAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	// Untouched sections keep defaults.
	assert.Equal(t, 1000, cfg.Cache.MaxMessages)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  max_attempts: 5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.HTTP.MaxAttempts)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("FERRIS_HTTP_MAX_ATTEMPTS", "7")
	t.Setenv("FERRIS_LOG_LEVEL", "warn")
	t.Setenv("FERRIS_UNRELATED", "ignored")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.HTTP.MaxAttempts)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidationRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"zero attempts", "http:\n  max_attempts: 0\n"},
		{"empty base url", "api:\n  base_url: \"\"\n"},
		{"not a url", "api:\n  base_url: not-a-url\n"},
		{"empty user agent", "api:\n  user_agent: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}
