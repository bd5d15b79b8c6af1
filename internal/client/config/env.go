package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig is a DTO for environment parsing. Durations use Go syntax
// ("10s", "2m30s").
type envConfig struct {
	BaseURL     string        `env:"FLASHDECK_BASE_URL"`
	HTTPTimeout time.Duration `env:"FLASHDECK_HTTP_TIMEOUT"`
	AccessToken string        `env:"FLASHDECK_ACCESS_TOKEN"`
}

// parseEnv overlays Config with values from the environment. Unset variables
// keep the earlier values. Panics on malformed values, matching the JSON and
// flag stages.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.BaseURL != "" {
		cfg.BaseURL = ec.BaseURL
	}
	if ec.HTTPTimeout != 0 {
		cfg.HTTPTimeout = ec.HTTPTimeout
	}
	if ec.AccessToken != "" {
		cfg.AccessToken = ec.AccessToken
	}
}
