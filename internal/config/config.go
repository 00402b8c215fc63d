package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime settings, populated from the environment.
type Config struct {
	Addr       string `env:"VERITE_ADDR" envDefault:":8080"`
	DBPath     string `env:"VERITE_DB_PATH" envDefault:"verite.db"`
	TablesPath string `env:"VERITE_TABLES_PATH"`
	LogLevel   string `env:"VERITE_LOG_LEVEL" envDefault:"info"`
	Env        string `env:"VERITE_ENV" envDefault:"development"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
