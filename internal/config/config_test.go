package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("API_BASE_URL", "https://api.example.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Checkout.RedirectDelay)
	assert.Equal(t, "/disp", cfg.Checkout.RedirectTarget)
	assert.Equal(t, "https://checkout.razorpay.com/v1/checkout.js", cfg.Razorpay.ScriptURL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestGetEnvAsSliceTrimsSpaces(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")

	assert.Equal(t, []string{"https://a.test", "https://b.test"}, getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil))
	assert.Equal(t, []string{"x"}, getEnvAsSlice("UNSET_SLICE_KEY", []string{"x"}))
}

func TestGetEnvAsDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")

	assert.Equal(t, 5*time.Second, getEnvAsDuration("API_TIMEOUT", 5*time.Second))
}
