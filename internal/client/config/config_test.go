package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8000", c.APIBaseURL)
	assert.Equal(t, "orcha.db", c.DatabasePath)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"cmd"}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, "orcha.db", cfg.DatabasePath)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "http://orcha.internal:9000")
	t.Setenv(EnvDatabasePath, "/tmp/state.db")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "http://orcha.internal:9000", c.APIBaseURL)
	assert.Equal(t, "/tmp/state.db", c.DatabasePath)
}
