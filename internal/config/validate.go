package config

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxQuestionCount is the largest batch the backend is asked for.
const MaxQuestionCount = 20

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// issueCollector accumulates validation issues.
type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks a normalized config for correctness.
func Validate(cfg *Config) error {
	collector := &issueCollector{}

	if cfg.Version == 0 {
		collector.add("version", "is required")
	} else if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	validateBaseURL(cfg.Backend.BaseURL, collector)
	if cfg.Backend.TimeoutSeconds < 0 {
		collector.add("backend.timeout_seconds", "must be >= 0")
	}

	if cfg.Quiz.DefaultCount < 1 || cfg.Quiz.DefaultCount > MaxQuestionCount {
		collector.add("quiz.default_count", fmt.Sprintf("must be between 1 and %d", MaxQuestionCount))
	}
	if cfg.Quiz.MaxContentChars < 1 {
		collector.add("quiz.max_content_chars", "must be positive")
	}

	switch cfg.UI.Mode {
	case "auto", "live", "plain":
	default:
		collector.add("ui.mode", fmt.Sprintf("unsupported mode %q (want auto, live, or plain)", cfg.UI.Mode))
	}

	return collector.result()
}

func validateBaseURL(raw string, collector *issueCollector) {
	if strings.TrimSpace(raw) == "" {
		collector.add("backend.base_url", "is required")
		return
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		collector.add("backend.base_url", fmt.Sprintf("invalid url: %v", err))
		return
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		collector.add("backend.base_url", "must use http or https")
	}
	if parsed.Host == "" {
		collector.add("backend.base_url", "must include a host")
	}
}
