// ABOUTME: Structured logger setup shared by the CLI and engine components
// ABOUTME: Wraps charmbracelet/log; library code defaults to a silent logger
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w at the given level ("debug", "info", "warn", "error")
func New(w io.Writer, level string, jsonOutput bool) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "devotional",
	})
	if jsonOutput {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger, nil
}

// ParseLevel parses a level name, case-insensitively
func ParseLevel(level string) (log.Level, error) {
	if strings.TrimSpace(level) == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Nop returns a logger that discards everything
func Nop() *log.Logger {
	return log.New(io.Discard)
}

// OrNop returns l, or a discarding logger when l is nil
func OrNop(l *log.Logger) *log.Logger {
	if l == nil {
		return Nop()
	}
	return l
}
