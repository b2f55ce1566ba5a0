// Package history journals probe verdicts and remediation results to SQLite.
//
// The journal is write-mostly: the monitor appends to it and the CLI lists
// it. Nothing reads it back to restore loop state.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// SQLiteStore persists events in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open creates (or opens) the journal at path.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history db: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		kind TEXT NOT NULL,
		cycle_id TEXT,
		endpoint TEXT,
		instance_id TEXT,
		healthy INTEGER,
		outcome TEXT,
		details TEXT
	);`)
	return err
}

// Save inserts a new record, stamping it with the current time when unset.
func (s *SQLiteStore) Save(record domain.EventRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO events
		(timestamp, kind, cycle_id, endpoint, instance_id, healthy, outcome, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.UTC().Format(time.RFC3339Nano),
		string(record.Kind),
		record.CycleID,
		record.Endpoint,
		record.InstanceID,
		boolToInt(record.Healthy),
		record.Outcome,
		record.Details,
	)
	return err
}

// Records returns the newest entries first. An empty kind matches all kinds.
func (s *SQLiteStore) Records(limit int, kind domain.EventKind) ([]domain.EventRecord, error) {
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, kind, cycle_id, endpoint, instance_id, healthy, outcome, details FROM events")
	var args []interface{}
	if kind != "" {
		builder.WriteString(" WHERE kind = ?")
		args = append(args, string(kind))
	}
	builder.WriteString(" ORDER BY id DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.EventRecord
	for rows.Next() {
		var rec domain.EventRecord
		var ts, kind string
		var healthy int
		if err := rows.Scan(&ts, &kind, &rec.CycleID, &rec.Endpoint, &rec.InstanceID, &healthy, &rec.Outcome, &rec.Details); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Kind = domain.EventKind(kind)
		rec.Healthy = healthy == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.EventRepository = (*SQLiteStore)(nil)
