package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Defaults applied by Normalize.
const (
	DefaultBaseURL         = "http://localhost:8000"
	DefaultTimeoutSeconds  = 120
	DefaultQuestionCount   = 3
	DefaultMaxContentChars = 2000
	DefaultLanguage        = "zh-TW"
	DefaultUIMode          = "auto"
	DefaultHistoryPath     = ConfigDirName + "/history.duckdb"
	DefaultStatePath       = ConfigDirName + "/state.json"
)

// Normalize fills unset fields with defaults.
func Normalize(cfg *Config) {
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Backend.BaseURL), "/")
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = DefaultBaseURL
	}
	if cfg.Backend.TimeoutSeconds == 0 {
		cfg.Backend.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.Quiz.DefaultCount == 0 {
		cfg.Quiz.DefaultCount = DefaultQuestionCount
	}
	if cfg.Quiz.MaxContentChars == 0 {
		cfg.Quiz.MaxContentChars = DefaultMaxContentChars
	}
	if strings.TrimSpace(cfg.Quiz.Language) == "" {
		cfg.Quiz.Language = DefaultLanguage
	}
	cfg.UI.Mode = strings.ToLower(strings.TrimSpace(cfg.UI.Mode))
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = DefaultUIMode
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if strings.TrimSpace(cfg.State.Path) == "" {
		cfg.State.Path = DefaultStatePath
	}
}

// Timeout returns the per-request backend timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// ResolvePath resolves a config-relative path against the repo root.
func ResolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, filepath.FromSlash(path))
}
