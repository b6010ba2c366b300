package audit

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Write request outcomes.
const (
	OutcomePending  = "pending"
	OutcomeApproved = "approved"
	OutcomeDenied   = "denied"
	OutcomeAuto     = "auto" // executed without a user decision

	sqliteTimeLayout = "2006-01-02 15:04:05"
)

// Entry is one recorded agent write request.
type Entry struct {
	ID            string
	CreatedAt     time.Time
	Description   string
	ByteCount     int
	Trust         string
	PasswordGated bool
	Outcome       string
	DecidedAt     time.Time
}

// RecordRequest inserts a write request. Auto-executed writes are
// recorded with OutcomeAuto in the same call; queued writes start as
// pending and are finished by RecordOutcome.
func (s *Store) RecordRequest(id, description string, byteCount int, trust string, passwordGated bool, outcome string) error {
	if s == nil || s.conn == nil {
		return fmt.Errorf("audit store is not open")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("request id is required")
	}
	if outcome == "" {
		outcome = OutcomePending
	}

	gated := 0
	if passwordGated {
		gated = 1
	}
	var decidedAt sql.NullString
	if outcome != OutcomePending {
		decidedAt = sql.NullString{String: time.Now().UTC().Format(sqliteTimeLayout), Valid: true}
	}

	_, err := s.conn.Exec(
		`INSERT INTO write_requests (id, created_at, description, byte_count, trust, password_gated, outcome, decided_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		time.Now().UTC().Format(sqliteTimeLayout),
		description,
		byteCount,
		trust,
		gated,
		outcome,
		decidedAt,
	)
	if err != nil {
		return fmt.Errorf("insert write request: %w", err)
	}
	return nil
}

// RecordOutcome marks a pending request approved or denied.
func (s *Store) RecordOutcome(id, outcome string) error {
	if s == nil || s.conn == nil {
		return fmt.Errorf("audit store is not open")
	}

	res, err := s.conn.Exec(
		`UPDATE write_requests SET outcome = ?, decided_at = ? WHERE id = ?`,
		outcome,
		time.Now().UTC().Format(sqliteTimeLayout),
		id,
	)
	if err != nil {
		return fmt.Errorf("update write request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("write request %q not found", id)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if s == nil || s.conn == nil {
		return nil, fmt.Errorf("audit store is not open")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.conn.Query(
		`SELECT id, created_at, description, byte_count, trust, password_gated, outcome, decided_at
		 FROM write_requests ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query write requests: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			created   string
			gated     int
			decidedAt sql.NullString
		)
		if err := rows.Scan(&e.ID, &created, &e.Description, &e.ByteCount, &e.Trust, &gated, &e.Outcome, &decidedAt); err != nil {
			return nil, fmt.Errorf("scan write request: %w", err)
		}
		e.CreatedAt, _ = time.Parse(sqliteTimeLayout, created)
		e.PasswordGated = gated != 0
		if decidedAt.Valid {
			e.DecidedAt, _ = time.Parse(sqliteTimeLayout, decidedAt.String)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
