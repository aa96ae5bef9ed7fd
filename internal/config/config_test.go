package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{Version: 1}
	Normalize(&cfg)
	return cfg
}

// TestNormalizeDefaults verifies unset fields receive defaults.
func TestNormalizeDefaults(t *testing.T) {
	cfg := Config{Version: 1, Backend: BackendConfig{BaseURL: " http://example.test/ "}, UI: UIConfig{Mode: "LIVE"}}
	Normalize(&cfg)

	if cfg.Backend.BaseURL != "http://example.test" {
		t.Fatalf("unexpected base url %q", cfg.Backend.BaseURL)
	}
	if cfg.Timeout() != 120*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Timeout())
	}
	if cfg.Quiz.DefaultCount != 3 || cfg.Quiz.MaxContentChars != 2000 || cfg.Quiz.Language != "zh-TW" {
		t.Fatalf("unexpected quiz defaults %+v", cfg.Quiz)
	}
	if cfg.UI.Mode != "live" {
		t.Fatalf("expected lowercased ui mode, got %q", cfg.UI.Mode)
	}
	if cfg.History.Path != ".ragclass/history.duckdb" || cfg.State.Path != ".ragclass/state.json" {
		t.Fatalf("unexpected paths %+v %+v", cfg.History, cfg.State)
	}
}

// TestValidateAcceptsDefaults verifies a normalized empty config is valid.
func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("expected config to validate, got %v", err)
	}
}

// TestValidateCollectsIssues verifies every bad field is reported.
func TestValidateCollectsIssues(t *testing.T) {
	cfg := validConfig()
	cfg.Version = 2
	cfg.Backend.BaseURL = "ftp://files"
	cfg.Backend.TimeoutSeconds = -1
	cfg.Quiz.DefaultCount = 21
	cfg.Quiz.MaxContentChars = -3
	cfg.UI.Mode = "fancy"

	err := Validate(&cfg)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := map[string]bool{}
	for _, issue := range validationErr.Issues {
		fields[issue.Field] = true
	}
	for _, field := range []string{"version", "backend.base_url", "backend.timeout_seconds", "quiz.default_count", "quiz.max_content_chars", "ui.mode"} {
		if !fields[field] {
			t.Fatalf("expected issue for %s, got %v", field, validationErr.Issues)
		}
	}
}

// TestParseRejectsUnknownFields verifies strict decoding.
func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse([]byte("version: 1\nbackend:\n  url: x\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if _, err := Parse([]byte("version: 1\n---\nversion: 1\n")); err == nil || !strings.Contains(err.Error(), "multiple YAML documents") {
		t.Fatalf("expected multiple document error, got %v", err)
	}
}

// TestScaffoldRoundTrip verifies the scaffold loads cleanly and is not overwritten.
func TestScaffoldRoundTrip(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	root := t.TempDir()
	path := ConfigPath(root)
	if err := Scaffold(path, "http://course.local:9000"); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://course.local:9000" {
		t.Fatalf("unexpected base url %q", cfg.Backend.BaseURL)
	}
	if err := Scaffold(path, ""); err == nil {
		t.Fatalf("expected existing config error")
	}
}

// TestLoadAppliesEnvOverride verifies RAGCLASS_BASE_URL wins over the file.
func TestLoadAppliesEnvOverride(t *testing.T) {
	root := t.TempDir()
	path := ConfigPath(root)
	if err := Scaffold(path, ""); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	t.Setenv(BaseURLEnv, "https://override.test/")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "https://override.test" {
		t.Fatalf("expected env override, got %q", cfg.Backend.BaseURL)
	}
}

// TestFindConfigPathSearchesParents verifies the upward search.
func TestFindConfigPathSearchesParents(t *testing.T) {
	root := t.TempDir()
	if err := Scaffold(ConfigPath(root), ""); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := FindConfigPath(nested)
	if err != nil {
		t.Fatalf("find config: %v", err)
	}
	want, _ := filepath.Abs(ConfigPath(root))
	if found != want {
		t.Fatalf("expected %q, got %q", want, found)
	}
	if RootFromConfigPath(found) != filepath.Dir(filepath.Dir(want)) {
		t.Fatalf("unexpected root %q", RootFromConfigPath(found))
	}
}

// TestFindConfigPathSkipsStateOnlyDir verifies a .ragclass directory without a
// config does not end the search.
func TestFindConfigPathSkipsStateOnlyDir(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "course")
	if err := os.MkdirAll(ConfigDir(nested), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(ConfigDir(nested), "state.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}
	if _, err := FindConfigPath(nested); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}

	if err := os.MkdirAll(ConfigDir(root), 0o755); err != nil {
		t.Fatalf("mkdir root: %v", err)
	}
	if err := os.WriteFile(ConfigPath(root), []byte("version: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	found, err := FindConfigPath(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != ConfigPath(root) {
		t.Fatalf("expected %q, got %q", ConfigPath(root), found)
	}
}

// TestFindConfigPathNotFound verifies the sentinel for an empty tree.
func TestFindConfigPathNotFound(t *testing.T) {
	if _, err := FindConfigPath(t.TempDir()); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

// TestResolvePath verifies relative paths are anchored at the root.
func TestResolvePath(t *testing.T) {
	if got := ResolvePath("/repo", ".ragclass/state.json"); got != filepath.Join("/repo", ".ragclass", "state.json") {
		t.Fatalf("unexpected path %q", got)
	}
	if got := ResolvePath("/repo", "/abs/file"); got != "/abs/file" {
		t.Fatalf("unexpected absolute path %q", got)
	}
}
