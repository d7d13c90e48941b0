package cmd

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AppConfig holds deployment settings read from the environment. The
// secret key gates save-file signing and is never logged.
type AppConfig struct {
	SecretKey   string `env:"BABYLON_SECRET_KEY"`
	DatabaseURL string `env:"BABYLON_DATABASE_URL"`
	Debug       bool   `env:"BABYLON_DEBUG"`
}

// LoadEnv parses the BABYLON_* environment variables.
func LoadEnv() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
