package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ragclass/internal/config"
)

// TestValidateCommandSuccess verifies validate command success path.
func TestValidateCommandSuccess(t *testing.T) {
	configPath := config.ConfigPath(t.TempDir())
	if err := config.Scaffold(configPath, "http://localhost:8000"); err != nil {
		t.Fatalf("scaffold: %v", err)
	}

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--config", configPath}, &out, &err)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if err.Len() != 0 {
		t.Fatalf("expected no stderr output, got %q", err.String())
	}
	if !strings.Contains(out.String(), "Config OK") {
		t.Fatalf("expected success message, got %q", out.String())
	}
}

// TestValidateCommandFailure verifies validate command error handling.
func TestValidateCommandFailure(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigDirName, config.ConfigFileName)
	body := []byte(`version: 2
backend:
  base_url: "ftp://course.test"
quiz:
  default_count: 50
ui:
  mode: fancy
`)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(configPath, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--config", configPath}, &out, &err)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", out.String())
	}
	for _, field := range []string{"version", "backend.base_url", "quiz.default_count", "ui.mode"} {
		if !strings.Contains(err.String(), field) {
			t.Fatalf("expected %s issue, got %q", field, err.String())
		}
	}
}

// TestValidateCommandUnknownField verifies strict decoding.
func TestValidateCommandUnknownField(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(configPath, []byte("version: 1\nbackend:\n  url: x\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out, err bytes.Buffer
	if code := Run([]string{"validate", "--config", configPath}, &out, &err); code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(err.String(), "Validation failed") {
		t.Fatalf("expected failure header, got %q", err.String())
	}
}

// TestValidateCommandUnexpectedArgs verifies positional args are rejected.
func TestValidateCommandUnexpectedArgs(t *testing.T) {
	var out, err bytes.Buffer
	if code := Run([]string{"validate", "extra"}, &out, &err); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(err.String(), "unexpected arguments: extra") {
		t.Fatalf("expected unexpected args error, got %q", err.String())
	}
}
