package history

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// nilIfEmpty returns nil if s is empty, otherwise returns s.
// Used for nullable database columns.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// scanEntries scans history rows into entries.
func scanEntries(rows *sql.Rows) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		var pathJSON string
		var link, bill sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Time, &pathJSON, &entry.Text, &link, &bill); err != nil {
			return nil, fmt.Errorf("scan history entry failed: %w", err)
		}
		if err := json.Unmarshal([]byte(pathJSON), &entry.Path); err != nil {
			return nil, fmt.Errorf("decode path for entry %s failed: %w", entry.ID, err)
		}
		entry.Link = link.String
		entry.Bill = bill.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows failed: %w", err)
	}
	return entries, nil
}

// scanEntryRow scans a single history row.
func scanEntryRow(row *sql.Row) (*models.HistoryEntry, error) {
	var entry models.HistoryEntry
	var pathJSON string
	var link, bill sql.NullString
	if err := row.Scan(&entry.ID, &entry.Time, &pathJSON, &entry.Text, &link, &bill); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(pathJSON), &entry.Path); err != nil {
		return nil, fmt.Errorf("decode path for entry %s failed: %w", entry.ID, err)
	}
	entry.Link = link.String
	entry.Bill = bill.String
	return &entry, nil
}
