package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://api:8080", "-t", "5", "-d", "x.db", "-r", "0", "-l", "debug"},
			expected: &Config{
				APIBaseURL:        "http://api:8080",
				RequestTimeout:    5 * time.Second,
				SessionDBPath:     "x.db",
				RequestsPerSecond: 0,
				LogLevel:          "debug",
			},
		},
		{
			name:     "unrelated flags ignored",
			args:     []string{"-c", "cfg.json", "-a", "http://api"},
			expected: &Config{APIBaseURL: "http://api"},
		},
		{name: "bad timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
