package config

// Config is the .ragclass/config.yml document.
type Config struct {
	Version int           `yaml:"version"`
	Backend BackendConfig `yaml:"backend"`
	Quiz    QuizConfig    `yaml:"quiz"`
	UI      UIConfig      `yaml:"ui"`
	History HistoryConfig `yaml:"history"`
	State   StateConfig   `yaml:"state"`
}

type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type QuizConfig struct {
	DefaultCount    int    `yaml:"default_count"`
	MaxContentChars int    `yaml:"max_content_chars"`
	Language        string `yaml:"language"`
}

type UIConfig struct {
	Mode string `yaml:"mode"`
}

type HistoryConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

type StateConfig struct {
	Path string `yaml:"path"`
}
