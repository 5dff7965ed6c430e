// Package persist keeps the record list and display preferences in a local
// SQLite key/value table.
package persist

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/assettrack/assettrack/internal/model"
)

// Storage keys.
const (
	KeyRecords  = "assetData"
	KeyDarkMode = "darkMode"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Store is a key/value store backed by SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the database at path. Use ":memory:" for a throwaway store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	// One connection: SQLite has a single writer and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}
	logger.Debug("database opened", slog.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// LoadRecords returns the saved record list. Nothing saved, or content that
// does not decode, gives an empty list.
func (s *Store) LoadRecords() ([]model.Asset, error) {
	raw, ok, err := s.Get(KeyRecords)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Asset{}, nil
	}

	var records []model.Asset
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Warn("ignoring malformed saved records", slog.String("error", err.Error()))
		return []model.Asset{}, nil
	}
	if records == nil {
		records = []model.Asset{}
	}
	return records, nil
}

// SaveRecords overwrites the saved record list.
func (s *Store) SaveRecords(records []model.Asset) error {
	if records == nil {
		records = []model.Asset{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	if err := s.Put(KeyRecords, string(data)); err != nil {
		return err
	}
	s.logger.Debug("records saved", slog.Int("count", len(records)))
	return nil
}

// DarkMode returns the saved display preference, false when unset.
func (s *Store) DarkMode() (bool, error) {
	raw, ok, err := s.Get(KeyDarkMode)
	if err != nil || !ok {
		return false, err
	}
	var on bool
	if err := json.Unmarshal([]byte(raw), &on); err != nil {
		s.logger.Warn("ignoring malformed dark mode preference", slog.String("value", raw))
		return false, nil
	}
	return on, nil
}

// SetDarkMode saves the display preference.
func (s *Store) SetDarkMode(on bool) error {
	data, _ := json.Marshal(on)
	return s.Put(KeyDarkMode, string(data))
}
