package config

import (
	"os"
	"strings"
)

// Provider modes supported by the gateway. Demo skips the external call and
// routes the user to the bundled simulated provider page.
const (
	ModeDemo   = "demo"
	ModeVeriff = "veriff"
)

// Config captures everything the server needs, built once at startup and
// injected into constructors so nothing reads ambient environment state.
type Config struct {
	Addr          string
	PublicBaseURL string
	ProviderMode  string

	ProviderBaseURL string
	ProviderAPIKey  string

	AdminEmail    string
	AdminPassword string
	SigningSecret string

	LogLevel string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	publicBase := os.Getenv("PUBLIC_BASE_URL")
	if publicBase == "" {
		publicBase = "http://localhost:" + port
	}

	mode := strings.ToLower(os.Getenv("PROVIDER_MODE"))
	if mode == "" {
		mode = ModeDemo
	}

	providerBase := os.Getenv("VERIFF_BASE_URL")
	if providerBase == "" {
		providerBase = "https://stationapi.veriff.com"
	}

	secret := os.Getenv("ADMIN_SESSION_SECRET")
	if secret == "" {
		// Development default - must be overridden in production.
		secret = "dev_secret_change_me"
	}

	return Config{
		Addr:            ":" + port,
		PublicBaseURL:   strings.TrimRight(publicBase, "/"),
		ProviderMode:    mode,
		ProviderBaseURL: strings.TrimRight(providerBase, "/"),
		ProviderAPIKey:  os.Getenv("VERIFF_API_KEY"),
		AdminEmail:      strings.ToLower(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		SigningSecret:   secret,
		LogLevel:        os.Getenv("LOG_LEVEL"),
	}
}
