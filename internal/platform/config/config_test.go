package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "PUBLIC_BASE_URL", "PROVIDER_MODE", "VERIFF_BASE_URL",
		"VERIFF_API_KEY", "ADMIN_EMAIL", "ADMIN_PASSWORD", "ADMIN_SESSION_SECRET",
		"LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "http://localhost:3000", cfg.PublicBaseURL)
	assert.Equal(t, ModeDemo, cfg.ProviderMode)
	assert.Equal(t, "https://stationapi.veriff.com", cfg.ProviderBaseURL)
	assert.Equal(t, "dev_secret_change_me", cfg.SigningSecret)
	assert.Empty(t, cfg.AdminEmail)
	assert.Empty(t, cfg.AdminPassword)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("PUBLIC_BASE_URL", "https://verify.example.com/")
	t.Setenv("PROVIDER_MODE", "VERIFF")
	t.Setenv("VERIFF_BASE_URL", "https://api.provider.test/")
	t.Setenv("VERIFF_API_KEY", "key-123")
	t.Setenv("ADMIN_EMAIL", "Admin@Example.com")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("ADMIN_SESSION_SECRET", "prod-secret")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "https://verify.example.com", cfg.PublicBaseURL, "trailing slash is trimmed")
	assert.Equal(t, ModeVeriff, cfg.ProviderMode, "mode is lowercased")
	assert.Equal(t, "https://api.provider.test", cfg.ProviderBaseURL)
	assert.Equal(t, "key-123", cfg.ProviderAPIKey)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail, "admin email is lowercased")
	assert.Equal(t, "hunter2", cfg.AdminPassword)
	assert.Equal(t, "prod-secret", cfg.SigningSecret)
}
