// Package logs sets up agentpane's file-backed debug logger. The TUI
// owns the terminal, so diagnostics go to a file instead of stderr.
package logs

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// DefaultPath resolves the debug log location, honoring AGENTPANE_HOME.
func DefaultPath() string {
	if home := os.Getenv("AGENTPANE_HOME"); home != "" {
		return filepath.Join(home, "agentpane.log")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".agentpane", "agentpane.log")
	}
	return filepath.Join(homeDir, ".agentpane", "agentpane.log")
}

// Open appends to the log file at path (DefaultPath when empty) and
// returns a logger plus the closer for the underlying file.
func Open(path string) (*log.Logger, io.Closer, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags|log.LUTC), f, nil
}

// Discard returns a logger that drops everything, for callers that do
// not want a log file.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
