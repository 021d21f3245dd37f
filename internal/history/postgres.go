// Package history provides storage backends for finalized statements.
//
// This file implements the PostgreSQL-backed store.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	_ "embed"

	"github.com/gavelworks/clerkpipe/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists history entries to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}
	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) AddEntry(entry models.HistoryEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	pathJSON, err := json.Marshal(entry.Path)
	if err != nil {
		return fmt.Errorf("failed to encode path for entry %s: %w", entry.ID, err)
	}
	_, err = s.db.Exec(`INSERT INTO history (id, time, path, text, link, bill) VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.Time, string(pathJSON), entry.Text, nilIfEmpty(entry.Link), nilIfEmpty(entry.Bill))
	if err != nil {
		slog.Error("PostgresStore AddEntry failed", "error", err, "id", entry.ID)
		return fmt.Errorf("failed to insert history entry %s: %w", entry.ID, err)
	}
	slog.Debug("PostgresStore AddEntry succeeded", "id", entry.ID, "bill", entry.Bill)
	return nil
}

func (s *PostgresStore) GetEntry(id string) (*models.HistoryEntry, error) {
	row := s.db.QueryRow(`SELECT id, time, path, text, link, bill FROM history WHERE id = $1`, id)
	entry, err := scanEntryRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetEntry failed", "error", err, "id", id)
		return nil, err
	}
	return entry, nil
}

func (s *PostgresStore) UpdateEntry(entry models.HistoryEntry) error {
	pathJSON, err := json.Marshal(entry.Path)
	if err != nil {
		return fmt.Errorf("failed to encode path for entry %s: %w", entry.ID, err)
	}
	res, err := s.db.Exec(`UPDATE history SET time = $1, path = $2, text = $3, link = $4, bill = $5 WHERE id = $6`,
		entry.Time, string(pathJSON), entry.Text, nilIfEmpty(entry.Link), nilIfEmpty(entry.Bill), entry.ID)
	if err != nil {
		slog.Error("PostgresStore UpdateEntry failed", "error", err, "id", entry.ID)
		return fmt.Errorf("failed to update history entry %s: %w", entry.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrEntryNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteEntry(id string) error {
	res, err := s.db.Exec(`DELETE FROM history WHERE id = $1`, id)
	if err != nil {
		slog.Error("PostgresStore DeleteEntry failed", "error", err, "id", id)
		return fmt.Errorf("failed to delete history entry %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrEntryNotFound
	}
	return nil
}

func (s *PostgresStore) ListEntries() ([]models.HistoryEntry, error) {
	rows, err := s.db.Query(`SELECT id, time, path, text, link, bill FROM history`)
	if err != nil {
		slog.Error("PostgresStore ListEntries query failed", "error", err)
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()
	entries, err := scanEntries(rows)
	if err != nil {
		slog.Error("PostgresStore ListEntries scan failed", "error", err)
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Time.Before(entries[j].Time) })
	return entries, nil
}

func (s *PostgresStore) RenameBill(oldName, newName string) (int, error) {
	res, err := s.db.Exec(`UPDATE history SET bill = $1 WHERE bill = $2`, nilIfEmpty(newName), oldName)
	if err != nil {
		slog.Error("PostgresStore RenameBill failed", "error", err, "old", oldName, "new", newName)
		return 0, fmt.Errorf("failed to rename bill %s: %w", oldName, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *PostgresStore) ClearEntries() error {
	_, err := s.db.Exec(`DELETE FROM history`)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPreference(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		slog.Error("PostgresStore GetPreference failed", "error", err, "key", key)
		return "", fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) SetPreference(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO preferences (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		slog.Error("PostgresStore SetPreference failed", "error", err, "key", key)
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
