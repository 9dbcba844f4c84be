package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("POSTDESK_API_BASE_URL", "http://env:9000")
	t.Setenv("POSTDESK_REQUEST_TIMEOUT", "2s")
	t.Setenv("POSTDESK_REQUESTS_PER_SECOND", "0.5")

	cfg := &Config{SessionDBPath: "keep.db"}
	parseEnv(cfg)

	assert.Equal(t, "http://env:9000", cfg.APIBaseURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0.5, cfg.RequestsPerSecond)
	assert.Equal(t, "keep.db", cfg.SessionDBPath)
}

func TestParseEnv_MalformedPanics(t *testing.T) {
	t.Setenv("POSTDESK_REQUEST_TIMEOUT", "later")
	require.Panics(t, func() { parseEnv(&Config{}) })
}
