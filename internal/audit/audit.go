// Package audit records every agent write request and its outcome in a
// local SQLite database, giving the user a reviewable trail of what the
// agent asked to do and what was decided.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

type Store struct {
	path string
	conn *sql.DB
}

func Open() (*Store, error) {
	return OpenAt(DefaultPath())
}

func OpenAt(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0700); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}

	conn, err := sql.Open("sqlite", "file:"+filepath.ToSlash(clean)+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite PRAGMAs are per-connection; keep a single shared connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	initErr := func() error {
		if err := conn.Ping(); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		if _, err := conn.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
			return fmt.Errorf("set journal_mode=WAL: %w", err)
		}
		return migrate(conn)
	}()
	if initErr != nil {
		_ = conn.Close()
		return nil, initErr
	}

	return &Store{path: clean, conn: conn}, nil
}

func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// DefaultPath resolves the audit database location, honoring
// AGENTPANE_HOME for test and sandbox isolation.
func DefaultPath() string {
	if home := os.Getenv("AGENTPANE_HOME"); home != "" {
		return filepath.Join(home, "data", "audit.db")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".agentpane", "data", "audit.db")
	}
	return filepath.Join(homeDir, ".agentpane", "data", "audit.db")
}

func migrate(conn *sql.DB) error {
	_, err := conn.Exec(`
CREATE TABLE IF NOT EXISTS write_requests (
    id TEXT PRIMARY KEY,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    description TEXT NOT NULL,
    byte_count INTEGER NOT NULL,
    trust TEXT NOT NULL,
    password_gated INTEGER NOT NULL DEFAULT 0,
    outcome TEXT NOT NULL DEFAULT 'pending',
    decided_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_write_requests_created ON write_requests(created_at);
`)
	if err != nil {
		return fmt.Errorf("create write_requests: %w", err)
	}
	return nil
}
