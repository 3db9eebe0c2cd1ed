package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "exact", cfg.DefaultStrategy)
	assert.Equal(t, 10000, cfg.RandomMaxDraws)
	assert.NotEmpty(t, cfg.CorsOrigins)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DEFAULT_STRATEGY", "efficientv2")
	t.Setenv("ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "efficientv2", cfg.DefaultStrategy)
	assert.False(t, cfg.IsDevelopment())
}
