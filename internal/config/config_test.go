package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GATEWAY_BASE_URL", "http://gateway.local/api")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.DraftStore)
	assert.Equal(t, 2*time.Second, cfg.DraftDebounce())
	assert.Equal(t, 2*time.Second, cfg.VideoPollInterval())
	assert.Equal(t, 2*time.Minute, cfg.VideoPollTimeout())
	assert.Equal(t, 30*24*time.Hour, cfg.DraftRetention())
	assert.Equal(t, "gateway", cfg.ResourceStorage)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GATEWAY_BASE_URL", "")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("GATEWAY_BASE_URL")

	_, err := Load()
	assert.Error(t, err)
}
