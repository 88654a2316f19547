package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/logging"
)

func TestLoadWithMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "human", cfg.LogFormat)
	assert.Equal(t, 20, cfg.DefaultTopN)
	assert.Equal(t, 5, cfg.DefaultMaxDepth)
	assert.Equal(t, 3, cfg.LoadBearingThreshold)
}

func TestLoadOverridesDefaultsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symgraph.toml")
	content := "log_format = \"json\"\ndefault_top_n = 50\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 50, cfg.DefaultTopN)
	assert.Equal(t, 5, cfg.DefaultMaxDepth)
}

func TestLogLevelValueDefaultsToInfoOnUnknown(t *testing.T) {
	cfg := Config{LogLevel: "chatty"}
	assert.Equal(t, logging.InfoLevel, cfg.LogLevelValue())
}

func TestLogLevelValueParsesKnownLevels(t *testing.T) {
	assert.Equal(t, logging.DebugLevel, Config{LogLevel: "debug"}.LogLevelValue())
	assert.Equal(t, logging.WarnLevel, Config{LogLevel: "warning"}.LogLevelValue())
	assert.Equal(t, logging.ErrorLevel, Config{LogLevel: "error"}.LogLevelValue())
}

func TestLogFormatValueParsesJSONCaseInsensitively(t *testing.T) {
	assert.Equal(t, logging.JSONFormat, Config{LogFormat: "JSON"}.LogFormatValue())
	assert.Equal(t, logging.HumanFormat, Config{LogFormat: "human"}.LogFormatValue())
}
