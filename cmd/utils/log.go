package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
)

var (
	debugOnce   sync.Once
	debugFile   *os.File
	debugLogger *slog.Logger
	enableDebug bool

	// NOTE: order matters, more specific patterns come before generic ones.
	sensitivePatterns = []struct {
		pattern     *regexp.Regexp
		replacement string
	}{
		// JWT tokens, three base64 segments separated by dots
		{regexp.MustCompile(`\beyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), "[REDACTED-JWT]"},
		// OpenAI-style keys
		{regexp.MustCompile(`\b(sk|pk|sess)-[a-zA-Z0-9\-_]{20,}`), "[REDACTED-KEY]"},
		{regexp.MustCompile(`(?i)(authorization[=:\s]+['"]?)(Basic|Bearer|Digest)\s+[a-zA-Z0-9\-_\.=]+`), "${1}${2} [REDACTED]"},
		{regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9\-_\.]+`), "${1}[REDACTED]"},
		{regexp.MustCompile(`(?i)(api[_-]?key[=:\s]+['"]?)[a-zA-Z0-9\-_]{8,}`), "${1}[REDACTED]"},
		{regexp.MustCompile(`(?i)(apikey[=:\s]+['"]?)[a-zA-Z0-9\-_]{8,}`), "${1}[REDACTED]"},
		{regexp.MustCompile(`(?i)(password[=:\s]+['"]?)[^\s&'"]+`), "${1}[REDACTED]"},
		{regexp.MustCompile(`(?i)(token[=:\s]+['"]?)[a-zA-Z0-9\-_\.]{16,}`), "${1}[REDACTED]"},
	}
)

// InitDebugLogger opens the debug log and routes Bubble Tea's logging into it.
// An empty path means debug.log in the effective working directory. Only the
// first call opens a file.
func InitDebugLogger(path string, debug bool) error {
	enableDebug = debug
	var initErr error
	debugOnce.Do(func() {
		if path == "" {
			path = filepath.Join(GetEffectiveCWD(), "debug.log")
		}

		if debug {
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			fmt.Fprintf(os.Stderr, "[DEBUG] Logging to: %s\n", abs)
		}

		f, err := tea.LogToFile(path, "mrm")
		if err != nil {
			initErr = err
			return
		}
		debugFile = f
		debugLogger = newLogger(f)
	})
	return initErr
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.DateTime,
		NoColor:    true,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindString {
				a.Value = slog.StringValue(sanitizeLogMessage(a.Value.String()))
			}
			return a
		},
	}))
}

// Logger returns the debug logger, or a logger that discards everything when
// the debug log was never opened.
func Logger() *slog.Logger {
	if debugLogger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return debugLogger
}

// CloseDebugLogger closes the underlying debug log file if it was opened.
func CloseDebugLogger() {
	if debugFile != nil {
		_ = debugFile.Sync()
		_ = debugFile.Close()
	}
}

// ResetDebugLoggerForTesting resets the debug logger state.
// WARNING: This should ONLY be called from tests!
func ResetDebugLoggerForTesting() {
	CloseDebugLogger()
	debugOnce = sync.Once{}
	debugFile = nil
	debugLogger = nil
	enableDebug = false
}

func sanitizeLogMessage(msg string) string {
	sanitized := msg
	for _, sp := range sensitivePatterns {
		sanitized = sp.pattern.ReplaceAllString(sanitized, sp.replacement)
	}
	return sanitized
}

// LogDebug writes a sanitized message to the debug log. Nothing is written
// when the log was never opened, so a session without --debug leaves no file.
// With --debug the message is also routed through the output manager.
func LogDebug(msg string) {
	if debugLogger == nil {
		return
	}
	sanitized := sanitizeLogMessage(msg)
	debugLogger.Debug(sanitized)
	if enableDebug {
		sendMessage(DebugMessage, "%s", sanitized)
	}
}
