package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pop_automation.db", cfg.Track.Path)
	assert.Equal(t, "gemini", cfg.Extraction.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Extraction.GeminiModel)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Extraction.AnthropicModel)
	assert.Equal(t, "pdftotext", cfg.Extraction.PdfToTextPath)
	assert.Equal(t, 120, cfg.Extraction.TimeoutSecs)
	assert.Equal(t, 10, cfg.Extraction.RequestsPerMinute)
	assert.Equal(t, 100, cfg.Poll.WindowDays)
	assert.False(t, cfg.Poll.ProcessAll)
	assert.Equal(t, "pop_files", cfg.Poll.LocalFileDir)
	assert.Equal(t, "Proof of Prior", cfg.Poll.TaskPrefix)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
track:
  path: /var/lib/popmatch/track.db
extraction:
  provider: claude
poll:
  window_days: 30
  process_all: true
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/popmatch/track.db", cfg.Track.Path)
	assert.Equal(t, "claude", cfg.Extraction.Provider)
	assert.Equal(t, 30, cfg.Poll.WindowDays)
	assert.True(t, cfg.Poll.ProcessAll)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, "pop_files", cfg.Poll.LocalFileDir)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chTempDir(t)

	yaml := `
extraction:
  provider: claude
poll:
  window_days: 30
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0644))

	t.Setenv("POPMATCH_EXTRACTION_PROVIDER", "gemini")
	t.Setenv("POPMATCH_POLL_WINDOW_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "gemini", cfg.Extraction.Provider)
	assert.Equal(t, 7, cfg.Poll.WindowDays)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chTempDir(t)

	t.Setenv("POPMATCH_SERVER_PORT", "3000")
	t.Setenv("POPMATCH_AUTHORITATIVE_DATABASE_URL", "postgres://pop:pw@localhost/star")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "postgres://pop:pw@localhost/star", cfg.Authoritative.DatabaseURL)
}

func TestLoadBadYAML(t *testing.T) {
	chTempDir(t)
	require.NoError(t, os.WriteFile("config.yaml", []byte("poll: ["), 0644))

	_, err := Load()
	require.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	require.Error(t, err)
}
