package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from environment variables using `env` struct tags.
//
// Example:
//
//	type Config struct {
//	    HTTPPort      int    `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
//	    BackOfficeURL string `env:"BACKOFFICE_URL" envDefault:"http://localhost:3001"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
