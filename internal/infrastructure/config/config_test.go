package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebook/v1/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, "tastebook_session", cfg.Session.CookieName)

	// every toggle has an explicit default
	assert.True(t, cfg.Features.TrackCreators)
	assert.False(t, cfg.Features.RequireLoginForGroups)
	assert.True(t, cfg.RateLimit.Enable)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMin)
	assert.Equal(t, 20, cfg.RateLimit.BurstSize)
}
