package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_EXPIRE_HOURS", "")
	t.Setenv("FILTER_SESSION_TTL", "")

	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 24, cfg.JWTExpireHours)
	require.Equal(t, 30*time.Minute, cfg.FilterSessionTTL)
	require.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_EXPIRE_HOURS", "48")
	t.Setenv("APP_CHECK_ENABLED", "true")
	t.Setenv("MARKER_RATE_WINDOW", "15m")

	cfg := Load()
	require.True(t, cfg.IsProduction())
	require.Equal(t, 48, cfg.JWTExpireHours)
	require.True(t, cfg.AppCheckEnabled)
	require.Equal(t, 15*time.Minute, cfg.MarkerRateWindow)
}

func TestGetEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	require.Equal(t, 7, getEnvInt("X_INT", 7))
	require.True(t, getEnvBool("X_BOOL", true))
	require.Equal(t, time.Second, getEnvDuration("X_DUR", time.Second))
}
