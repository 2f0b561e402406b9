package config

// Config holds runtime settings for the ORCHA CLI.
//
// Fields:
//   - APIBaseURL: base URL of the ORCHA backend.
//   - DatabasePath: path (or sqlite DSN) of the local state database.
type Config struct {
	APIBaseURL   string
	DatabasePath string
}

// LoadDefaults populates c with the local-development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.DatabasePath = "orcha.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including a .env file if present), a JSON file (if
// selected via -c/-config) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
