// Package audit implements the persistence sink (§6.5 / C11): a single
// append-only sqlite table recording one row per LLM call attempt, grounded
// on the teacher's pkg/swarm/memory.SQLiteStore idiom (database/sql over
// modernc.org/sqlite, exec'd CREATE TABLE IF NOT EXISTS at Open time).
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Status is the terminal status of one recorded LLM call attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Record is one row of the §6.5 audit_log table: one INSERT per retry
// attempt, never updated after being written.
type Record struct {
	SessionID    string
	EndpointURL  string
	RequestBody  string
	ResponseBody *string
	Model        string
	Status       Status
	HTTPStatus   int
	ErrorMessage *string
	DurationMS   int64
	ToolCount    int
}

// SQLiteSink is the C11 persistence sink: a single sqlite file opened once
// at process start and closed at process end.
type SQLiteSink struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures the audit_log table and its schema exist. "~" is expanded to the
// user's home directory, matching CLAUDE_C_DB_PATH's documented form.
func Open(path string) (*SQLiteSink, error) {
	path = expandHome(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating audit db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit db: %w", err)
	}

	s := &SQLiteSink{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func (s *SQLiteSink) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		endpoint_url TEXT NOT NULL,
		request_body TEXT NOT NULL,
		response_body TEXT,
		model TEXT NOT NULL,
		status TEXT NOT NULL,
		http_status INTEGER NOT NULL,
		error_message TEXT,
		duration_ms INTEGER NOT NULL,
		tool_count INTEGER NOT NULL,
		recorded_at DATETIME NOT NULL
	)`)
	return err
}

// Record appends one row. Callers should log and discard a failed Record
// per §7's resource-exhaustion policy rather than abort the conversation.
func (s *SQLiteSink) Record(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO audit_log
		(session_id, endpoint_url, request_body, response_body, model, status, http_status, error_message, duration_ms, tool_count, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.EndpointURL, rec.RequestBody, rec.ResponseBody, rec.Model,
		string(rec.Status), rec.HTTPStatus, rec.ErrorMessage, rec.DurationMS, rec.ToolCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}

// CountForSession returns the number of recorded attempts for a session;
// used by tests to assert one row is written per retry attempt.
func (s *SQLiteSink) CountForSession(ctx context.Context, sessionID string) (int, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log WHERE session_id = ?`, sessionID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the underlying database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
