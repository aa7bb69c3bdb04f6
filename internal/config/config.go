package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents the application configuration structure
type Config struct {
	Environment string `split_words:"true" default:"dev"`

	// BackendBaseAddress is the base address of the portal backend API
	BackendBaseAddress string `split_words:"true" default:"http://localhost:8081"`

	// SSOProvider is the provider path segment used by the backend's SSO validation endpoint
	SSOProvider string `envconfig:"SSO_PROVIDER" default:"oidc"`

	OIDCProviderURL string `envconfig:"OIDC_PROVIDER_URL"`
	OIDCClientID    string `envconfig:"OIDC_CLIENT_ID"`

	// CallbackListenAddress is the local address the SSO redirect listener binds to
	CallbackListenAddress string `split_words:"true" default:"127.0.0.1:48617"`

	// SessionStorePath is the file the persistent session store lives in.
	// An empty value makes the application fall back to an in-memory store.
	SessionStorePath string `split_words:"true"`
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("pc", config); err != nil {
		return nil, err
	}
	return config, nil
}

// IsEnvProduction returns whether the application runs in production mode
func (config *Config) IsEnvProduction() bool {
	env := strings.ToLower(config.Environment)
	return env == "prod" || env == "production"
}

// CallbackURL assembles the redirect URL the local callback listener serves
func (config *Config) CallbackURL() string {
	return "http://" + config.CallbackListenAddress + "/callback"
}
