// Package history provides storage backends for finalized statements.
//
// This file implements the SQLite-backed store.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	_ "embed"

	"github.com/gavelworks/clerkpipe/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists history entries to a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN. The DSN is a
// file path; its directory is created when missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) AddEntry(entry models.HistoryEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	pathJSON, err := json.Marshal(entry.Path)
	if err != nil {
		return fmt.Errorf("failed to encode path for entry %s: %w", entry.ID, err)
	}
	_, err = s.db.Exec(`INSERT INTO history (id, time, path, text, link, bill) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Time, string(pathJSON), entry.Text, nilIfEmpty(entry.Link), nilIfEmpty(entry.Bill))
	if err != nil {
		slog.Error("SQLiteStore AddEntry failed", "error", err, "id", entry.ID)
		return fmt.Errorf("failed to insert history entry %s: %w", entry.ID, err)
	}
	slog.Debug("SQLiteStore AddEntry succeeded", "id", entry.ID, "bill", entry.Bill)
	return nil
}

func (s *SQLiteStore) GetEntry(id string) (*models.HistoryEntry, error) {
	row := s.db.QueryRow(`SELECT id, time, path, text, link, bill FROM history WHERE id = ?`, id)
	entry, err := scanEntryRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetEntry failed", "error", err, "id", id)
		return nil, err
	}
	return entry, nil
}

func (s *SQLiteStore) UpdateEntry(entry models.HistoryEntry) error {
	pathJSON, err := json.Marshal(entry.Path)
	if err != nil {
		return fmt.Errorf("failed to encode path for entry %s: %w", entry.ID, err)
	}
	res, err := s.db.Exec(`UPDATE history SET time = ?, path = ?, text = ?, link = ?, bill = ? WHERE id = ?`,
		entry.Time, string(pathJSON), entry.Text, nilIfEmpty(entry.Link), nilIfEmpty(entry.Bill), entry.ID)
	if err != nil {
		slog.Error("SQLiteStore UpdateEntry failed", "error", err, "id", entry.ID)
		return fmt.Errorf("failed to update history entry %s: %w", entry.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrEntryNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteEntry(id string) error {
	res, err := s.db.Exec(`DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		slog.Error("SQLiteStore DeleteEntry failed", "error", err, "id", id)
		return fmt.Errorf("failed to delete history entry %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrEntryNotFound
	}
	return nil
}

func (s *SQLiteStore) ListEntries() ([]models.HistoryEntry, error) {
	rows, err := s.db.Query(`SELECT id, time, path, text, link, bill FROM history`)
	if err != nil {
		slog.Error("SQLiteStore ListEntries query failed", "error", err)
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()
	entries, err := scanEntries(rows)
	if err != nil {
		slog.Error("SQLiteStore ListEntries scan failed", "error", err)
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Time.Before(entries[j].Time) })
	slog.Debug("SQLiteStore ListEntries succeeded", "count", len(entries))
	return entries, nil
}

func (s *SQLiteStore) RenameBill(oldName, newName string) (int, error) {
	res, err := s.db.Exec(`UPDATE history SET bill = ? WHERE bill = ?`, nilIfEmpty(newName), oldName)
	if err != nil {
		slog.Error("SQLiteStore RenameBill failed", "error", err, "old", oldName, "new", newName)
		return 0, fmt.Errorf("failed to rename bill %s: %w", oldName, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) ClearEntries() error {
	_, err := s.db.Exec(`DELETE FROM history`)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetPreference(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetPreference failed", "error", err, "key", key)
		return "", fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) SetPreference(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO preferences (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		slog.Error("SQLiteStore SetPreference failed", "error", err, "key", key)
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
