package config

import (
	"fmt"
	"os"
	"strings"
)

// BaseURLEnv overrides backend.base_url when set.
const BaseURLEnv = "RAGCLASS_BASE_URL"

// Load reads, parses, normalizes, and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	ApplyEnv(&cfg, os.Getenv)
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns a normalized config for use without a config file.
func Default() Config {
	cfg := Config{Version: 1}
	ApplyEnv(&cfg, os.Getenv)
	Normalize(&cfg)
	return cfg
}

// ApplyEnv applies environment overrides using getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if value := strings.TrimSpace(getenv(BaseURLEnv)); value != "" {
		cfg.Backend.BaseURL = value
	}
}
