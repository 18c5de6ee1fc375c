package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Bootstrap holds the few values needed before the settings file is read.
type Bootstrap struct {
	ConfigPath string `env:"ONBOARD_CONFIG" envDefault:"config.yml"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	BwsBinary  string `env:"BWS_BINARY" envDefault:"bws"`
	Version    string `env:"APP_VERSION" envDefault:"dev"`
}

// LoadBootstrap reads an optional .env file and parses the environment.
func LoadBootstrap() (Bootstrap, error) {
	_ = godotenv.Load()

	var b Bootstrap
	if err := env.Parse(&b); err != nil {
		return Bootstrap{}, fmt.Errorf("parse env: %w", err)
	}
	return b, nil
}
