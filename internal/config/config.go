package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultAPIBase is used when neither the flag nor config.toml name an API.
const DefaultAPIBase = "http://127.0.0.1:8001/api"

// Config represents the global ~/.msgr/config.toml.
type Config struct {
	DefaultSession string `toml:"default_session"`
	APIBase        string `toml:"api_base"`
	Layout         string `toml:"layout"`
	Email          string `toml:"email"`
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault reads config from path, falling back to an empty config when
// the file is missing or unreadable.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return &Config{}
	}
	return cfg
}

// API returns the API base URL honoring flag > config > default precedence.
func (c *Config) API(flagOverride string) string {
	if flagOverride != "" {
		return flagOverride
	}
	if c != nil && c.APIBase != "" {
		return c.APIBase
	}
	return DefaultAPIBase
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
