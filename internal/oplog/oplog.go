// Package oplog appends operation records to a log file on a best-effort
// basis.
//
// The log is a side channel, not a dependency: every failure while
// appending is swallowed, so a broken log can never fail or block the
// operation being logged.
package oplog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Logger appends timestamped lines to a single log file.
//
// A nil *Logger is valid and discards everything, so callers can hold an
// optional logger without nil checks at every call site.
type Logger struct {
	path string
}

// New creates a Logger appending to the file at path. The file and its
// parent directory are created lazily on first write.
func New(path string) *Logger {
	return &Logger{path: path}
}

// Log appends one "[unixMs] action: details" line. All errors are
// swallowed.
func (l *Logger) Log(action, details string) {
	if l == nil || l.path == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer file.Close()

	line := fmt.Sprintf("[%d] %s: %s\n", time.Now().UnixMilli(), action, details)
	_, _ = file.WriteString(line)
}

// Logf appends a line with a formatted details part.
func (l *Logger) Logf(action, format string, args ...any) {
	if l == nil {
		return
	}

	l.Log(action, fmt.Sprintf(format, args...))
}

// Path returns the log file location. Empty for a nil logger.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}

	return l.path
}
