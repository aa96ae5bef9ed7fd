package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"ragclass/internal/config"
)

// TestRootHelp verifies the usage lists every command.
func TestRootHelp(t *testing.T) {
	var out, err bytes.Buffer
	if code := Run([]string{"--help"}, &out, &err); code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if err.Len() != 0 {
		t.Fatalf("expected no stderr output, got %q", err.String())
	}
	output := out.String()
	if !strings.HasPrefix(output, "Usage:\n  ragclass <command> [options]") {
		t.Fatalf("expected usage header, got %q", output)
	}
	for _, cmd := range commands {
		if !strings.Contains(output, cmd.Name+" ") || !strings.Contains(output, cmd.Summary) {
			t.Fatalf("expected command %q in output", cmd.Name)
		}
	}
}

// TestCommandTable verifies the command set.
func TestCommandTable(t *testing.T) {
	var names []string
	for _, cmd := range commands {
		names = append(names, cmd.Name)
	}
	want := "init validate upload content ask history clear quiz stats"
	if got := strings.Join(names, " "); got != want {
		t.Fatalf("unexpected commands %q", got)
	}
}

// TestNoArgsShowsUsage verifies a bare invocation prints usage.
func TestNoArgsShowsUsage(t *testing.T) {
	var out, err bytes.Buffer
	if code := Run(nil, &out, &err); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if err.Len() != 0 || !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("expected usage on stdout, got %q / %q", out.String(), err.String())
	}
}

// TestUnknownCommand verifies unknown commands go to stderr with usage.
func TestUnknownCommand(t *testing.T) {
	var out, err bytes.Buffer
	if code := Run([]string{"nope"}, &out, &err); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", out.String())
	}
	if !strings.Contains(err.String(), "Unknown command: nope") || !strings.Contains(err.String(), "Usage:") {
		t.Fatalf("expected unknown command error, got %q", err.String())
	}
}

// TestCommandHelp verifies every command answers --help without side effects.
func TestCommandHelp(t *testing.T) {
	for _, cmd := range commands {
		var out, err bytes.Buffer
		if code := Run([]string{cmd.Name, "--help"}, &out, &err); code != ExitOK {
			t.Fatalf("%s: expected exit %d, got %d", cmd.Name, ExitOK, code)
		}
		if err.Len() != 0 {
			t.Fatalf("%s: expected no stderr output, got %q", cmd.Name, err.String())
		}
		for _, line := range cmd.Usage {
			if !strings.Contains(out.String(), line) {
				t.Fatalf("%s: expected usage line %q", cmd.Name, line)
			}
		}
	}
}

// TestInvalidFlag verifies flag errors exit with usage.
func TestInvalidFlag(t *testing.T) {
	var out, err bytes.Buffer
	if code := Run([]string{"quiz", "--count", "many"}, &out, &err); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(err.String(), "invalid arguments") {
		t.Fatalf("expected invalid arguments, got %q", err.String())
	}
}

// TestLoadConfigDefaultsWithoutFile verifies commands run on defaults before init.
func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(config.BaseURLEnv, "http://env.test:8100")

	cfg, root, err := loadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	resolvedDir, _ := filepath.EvalSymlinks(dir)
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	if resolvedRoot != resolvedDir {
		t.Fatalf("expected root %q, got %q", dir, root)
	}
	if cfg.Backend.BaseURL != "http://env.test:8100" || cfg.Quiz.DefaultCount != config.DefaultQuestionCount {
		t.Fatalf("unexpected defaults %+v", cfg)
	}

	if _, _, err := loadConfig(filepath.Join(dir, "missing.yml")); err == nil || errors.Is(err, config.ErrConfigNotFound) {
		t.Fatalf("expected read error for explicit missing path, got %v", err)
	}
}
