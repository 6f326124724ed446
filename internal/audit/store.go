package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/axiomframework/axiomguard/internal/model"
)

// Store persists enforcement decisions in a SQLite database for
// queryable history. Complements the JSONL log: the file is the
// tamper-evident record, the store answers questions.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// OpenStore creates (or opens) the decision database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("audit: create store directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open store: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: init store: %w", err)
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts TEXT,
		type TEXT,
		capability TEXT,
		context TEXT,
		component TEXT,
		role TEXT,
		view_role TEXT,
		location TEXT,
		reason TEXT
	);`)
	return err
}

// Record inserts one decision.
func (s *Store) Record(e model.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO decisions
		(ts, type, capability, context, component, role, view_role, location, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.At.UTC().Format(TimestampFormat),
		string(e.Type),
		string(e.Capability),
		string(e.Context),
		e.Component,
		string(e.Role),
		string(e.ViewRole),
		e.Location.String(),
		e.Detail,
	)
	if err != nil {
		return fmt.Errorf("audit: insert decision: %w", err)
	}
	return nil
}

// Observer returns an engine log observer that persists every
// recorded decision. Write failures go to onErr when non-nil.
func (s *Store) Observer(onErr func(error)) func(model.LogEntry) {
	return func(e model.LogEntry) {
		if err := s.Record(e); err != nil && onErr != nil {
			onErr(err)
		}
	}
}

// Query returns decisions recorded at or after since (zero value =
// everything), oldest first.
func (s *Store) Query(since time.Time) ([]model.LogEntry, error) {
	query := "SELECT ts, type, capability, context, component, role, view_role, location, reason FROM decisions"
	var args []any
	if !since.IsZero() {
		query += " WHERE datetime(ts) >= datetime(?)"
		args = append(args, since.UTC().Format(TimestampFormat))
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: query decisions: %w", err)
	}
	defer rows.Close()

	var out []model.LogEntry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.Timestamp, &entry.Type, &entry.Capability, &entry.Context,
			&entry.Component, &entry.Role, &entry.ViewRole, &entry.Location, &entry.Reason); err != nil {
			return nil, fmt.Errorf("audit: scan decision: %w", err)
		}
		out = append(out, entry.LogEntry())
	}
	return out, rows.Err()
}

// Stats derives statistics from the stored decisions.
func (s *Store) Stats(since time.Time) (model.Statistics, error) {
	entries, err := s.Query(since)
	if err != nil {
		return model.Statistics{}, err
	}
	return model.ComputeStatistics(entries), nil
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
