package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
	}{
		{
			name:     "both flags",
			args:     []string{"cmd", "-a", "http://127.0.0.1:9090", "-d", "other.db"},
			expected: &Config{APIBaseURL: "http://127.0.0.1:9090", DatabasePath: "other.db"},
		},
		{
			name:     "only address",
			args:     []string{"cmd", "-a", "http://127.0.0.1:9090"},
			expected: &Config{APIBaseURL: "http://127.0.0.1:9090", DatabasePath: "orcha.db"},
		},
		{
			name:     "unknown flags ignored",
			args:     []string{"cmd", "-x", "y"},
			expected: &Config{APIBaseURL: "http://localhost:8000", DatabasePath: "orcha.db"},
		},
	}

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}
			config.LoadDefaults()

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
