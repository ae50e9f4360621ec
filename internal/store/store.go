package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sadopc/kiosk/internal/kiosk"
)

const currentVersion = 1

// Store is the sqlite implementation of kiosk.Backend.
type Store struct {
	db     *sql.DB
	broker *broker
	now    func() time.Time
}

var _ kiosk.Backend = (*Store)(nil)

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, broker: newBroker(), now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

// Close releases every live subscription and the database.
func (s *Store) Close() error {
	s.broker.closeAll()
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS employees (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		external_id TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		pin         TEXT NOT NULL,
		is_active   INTEGER NOT NULL DEFAULT 1,
		is_driver   INTEGER NOT NULL DEFAULT 1,
		is_admin    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id  INTEGER NOT NULL REFERENCES employees(id),
		clock_in     TEXT NOT NULL,
		clock_out    TEXT,
		date         TEXT NOT NULL,
		lunch_waiver INTEGER NOT NULL DEFAULT 0,
		total_hours  TEXT,
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_entries_employee ON time_entries(employee_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_open ON time_entries(employee_id) WHERE clock_out IS NULL;

	CREATE TABLE IF NOT EXISTS dvi_records (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id   INTEGER NOT NULL REFERENCES employees(id),
		time_entry_id INTEGER REFERENCES time_entries(id),
		payload       TEXT NOT NULL,
		passed        INTEGER NOT NULL DEFAULT 0,
		inspected_at  TEXT NOT NULL,
		date          TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_dvi_entry ON dvi_records(time_entry_id);
	CREATE INDEX IF NOT EXISTS idx_dvi_date  ON dvi_records(date);

	CREATE TABLE IF NOT EXISTS timesheets (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id   INTEGER NOT NULL REFERENCES employees(id),
		time_entry_id INTEGER REFERENCES time_entries(id),
		payload       TEXT NOT NULL,
		total_hours   TEXT NOT NULL DEFAULT '0',
		date          TEXT NOT NULL,
		created_at    TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_timesheets_date ON timesheets(date);

	CREATE TABLE IF NOT EXISTS hr_requests (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		kind        TEXT NOT NULL,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		payload     TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'pending',
		date        TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_kind_date ON hr_requests(kind, date);

	CREATE TABLE IF NOT EXISTS safety_schedules (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		month       TEXT NOT NULL,
		year        INTEGER NOT NULL,
		instruction TEXT NOT NULL DEFAULT '',
		meetings    TEXT NOT NULL DEFAULT '[]',
		share_token TEXT NOT NULL UNIQUE,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/kiosk/kiosk.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "kiosk", "kiosk.db"), nil
}
