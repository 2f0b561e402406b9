package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_OverlaysFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base_url":"http://json:1234"}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"cmd", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "http://json:1234", c.APIBaseURL)
	// Field absent from the file keeps its previous value.
	assert.Equal(t, "orcha.db", c.DatabasePath)
}

func TestParseJson_NoFlagIsNoop(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"cmd"}
	t.Cleanup(func() { os.Args = oldArgs })

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "http://localhost:8000", c.APIBaseURL)
}

func TestParseJson_BadFilePanics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"cmd", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	var c Config
	c.LoadDefaults()
	require.Panics(t, func() { parseJson(&c) })
}
