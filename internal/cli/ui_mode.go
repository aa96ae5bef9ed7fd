package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// UI modes accepted by --ui and ui.mode.
const (
	uiModeAuto  = "auto"
	uiModeLive  = "live"
	uiModePlain = "plain"
)

// uiModeDecision captures whether the quiz runs in the live UI.
type uiModeDecision struct {
	useLive bool
	warning string
}

// isTerminal reports whether a stream is a TTY.
var isTerminal = defaultIsTerminal

// resolveUIMode decides between the live quiz and plain prompts. The live quiz reads
// keys from stdin and draws on stdout, so both must be terminals.
func resolveUIMode(mode string, verbose bool, stdin, stdout any) (uiModeDecision, error) {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	if normalized == "" {
		normalized = uiModeAuto
	}
	switch normalized {
	case uiModeAuto, uiModeLive, uiModePlain:
	default:
		return uiModeDecision{}, fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
	}
	if normalized == uiModePlain || verbose {
		return uiModeDecision{}, nil
	}
	interactive := isTerminal(stdin) && isTerminal(stdout)
	if normalized == uiModeLive && !interactive {
		return uiModeDecision{
			warning: "Live quiz requested but the terminal is not interactive; falling back to plain prompts.",
		}, nil
	}
	return uiModeDecision{useLive: interactive}, nil
}

// defaultIsTerminal inspects a stream for TTY support.
func defaultIsTerminal(stream any) bool {
	switch typed := stream.(type) {
	case *os.File:
		return typed != nil && term.IsTerminal(int(typed.Fd()))
	case interface{ Fd() uintptr }:
		return term.IsTerminal(int(typed.Fd()))
	default:
		return false
	}
}
