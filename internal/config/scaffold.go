package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultConfigTemplate = `version: 1
backend:
  base_url: "{{base_url}}"
  timeout_seconds: 120

quiz:
  default_count: 3
  max_content_chars: 2000
  language: "zh-TW"

ui:
  mode: auto

history:
  path: ".ragclass/history.duckdb"

state:
  path: ".ragclass/state.json"
`

// RenderScaffold returns the scaffold YAML for baseURL.
func RenderScaffold(baseURL string) string {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return strings.ReplaceAll(defaultConfigTemplate, "{{base_url}}", baseURL)
}

// Scaffold writes a starter config file, refusing to overwrite an existing one.
func Scaffold(configPath, baseURL string) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(configPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", configPath)
		}
		return fmt.Errorf("config file already exists at %q", configPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(RenderScaffold(baseURL)), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
