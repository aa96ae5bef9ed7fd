package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const prefix = "[verbose]"

const (
	ansiReset = "\x1b[0m"
	ansiDim   = "\x1b[2m"
	ansiGray  = "\x1b[90m"
	ansiRed   = "\x1b[31m"
	ansiBlue  = "\x1b[34m"
)

// Style selects the color used for a verbose line.
type Style int

const (
	StyleDefault Style = iota
	StyleRequest
	StyleError
)

// Logger writes diagnostic lines when enabled. A nil Logger discards everything.
type Logger struct {
	mu      sync.Mutex
	writer  io.Writer
	enabled bool
	styled  bool
}

// New returns a logger that writes to w when enabled is true.
func New(w io.Writer, enabled, noColor bool) *Logger {
	return &Logger{
		writer:  w,
		enabled: enabled && w != nil,
		styled:  !noColor && shouldUseStyling(w),
	}
}

// Discard returns a disabled logger.
func Discard() *Logger {
	return &Logger{}
}

// Enabled reports whether lines are written.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Printf writes a default-styled line.
func (l *Logger) Printf(format string, args ...any) {
	l.Styled(StyleDefault, format, args...)
}

// Errorf writes an error-styled line.
func (l *Logger) Errorf(format string, args ...any) {
	l.Styled(StyleError, format, args...)
}

// Styled writes a line with the given style.
func (l *Logger) Styled(style Style, format string, args ...any) {
	if !l.Enabled() {
		return
	}
	line := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "%s %s\n", l.apply(ansiGray+ansiDim, prefix), l.apply(colorFor(style), line))
}

func (l *Logger) apply(code, text string) string {
	if !l.styled || code == "" {
		return text
	}
	return code + text + ansiReset
}

func colorFor(style Style) string {
	switch style {
	case StyleRequest:
		return ansiBlue
	case StyleError:
		return ansiRed
	default:
		return ""
	}
}

// Truncate shortens text for single-line diagnostics.
func Truncate(text string, limit int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if limit <= 0 || len(runes) <= limit {
		return flat
	}
	return string(runes[:limit]) + "..."
}

func shouldUseStyling(writer io.Writer) bool {
	if writer == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.EqualFold(os.Getenv("CLICOLOR"), "0") {
		return false
	}
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
