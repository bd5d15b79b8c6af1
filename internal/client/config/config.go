package config

import "time"

// Config holds runtime settings for the flashdeck CLI.
//
// Fields:
//   - BaseURL: http(s) endpoint of the flashdeck backend.
//   - HTTPTimeout: per-request timeout applied to the gateway's HTTP client.
//   - AccessToken: optional previously issued bearer token to restore the
//     session from (empty means start anonymous).
type Config struct {
	BaseURL     string
	HTTPTimeout time.Duration
	AccessToken string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://localhost:5001"
	c.HTTPTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
