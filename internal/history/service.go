// Package history provides the history operations layered over a Store.
package history

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// Service implements the history operations over a Store backend: add, edit,
// delete, time correction, and bill rename. Every mutation writes through.
type Service struct {
	store Store
}

// NewService creates a history service backed by a Store.
func NewService(store Store) *Service {
	slog.Debug("Creating history service")
	return &Service{store: store}
}

// Add creates a history entry from a finalized path and its derived text.
// A generated ID is assigned when the entry has none.
func (s *Service) Add(entry models.HistoryEntry) (models.HistoryEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	if err := s.store.AddEntry(entry); err != nil {
		slog.Error("History Add failed", "error", err, "id", entry.ID)
		return models.HistoryEntry{}, err
	}
	slog.Info("History entry added", "id", entry.ID, "bill", entry.Bill)
	return entry, nil
}

// Get retrieves one entry by ID.
func (s *Service) Get(id string) (*models.HistoryEntry, error) {
	return s.store.GetEntry(id)
}

// Edit replaces an entry's path and re-derived text. The original link and
// bill are preserved unless non-empty replacements are given.
func (s *Service) Edit(id string, newPath models.Path, newText, newLink, newBill string) error {
	entry, err := s.store.GetEntry(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return models.ErrEntryNotFound
	}
	entry.Path = newPath
	entry.Text = newText
	if newLink != "" {
		entry.Link = newLink
	}
	if newBill != "" {
		entry.Bill = newBill
	}
	if err := s.store.UpdateEntry(*entry); err != nil {
		slog.Error("History Edit failed", "error", err, "id", id)
		return err
	}
	slog.Info("History entry edited", "id", id)
	return nil
}

// Delete removes one entry.
func (s *Service) Delete(id string) error {
	if err := s.store.DeleteEntry(id); err != nil {
		slog.Error("History Delete failed", "error", err, "id", id)
		return err
	}
	slog.Info("History entry deleted", "id", id)
	return nil
}

// CorrectTime updates an entry's time. The collection re-sorts by time on the
// next read.
func (s *Service) CorrectTime(id string, newTime time.Time) error {
	entry, err := s.store.GetEntry(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return models.ErrEntryNotFound
	}
	entry.Time = newTime
	if err := s.store.UpdateEntry(*entry); err != nil {
		slog.Error("History CorrectTime failed", "error", err, "id", id)
		return err
	}
	slog.Info("History entry time corrected", "id", id, "time", newTime)
	return nil
}

// RenameBill bulk-updates every entry under oldName. A blank new name
// normalizes to the uncategorized group.
func (s *Service) RenameBill(oldName, newName string) (int, error) {
	newName = models.NormalizeBill(newName)
	count, err := s.store.RenameBill(oldName, newName)
	if err != nil {
		slog.Error("History RenameBill failed", "error", err, "old", oldName, "new", newName)
		return 0, err
	}
	slog.Info("Bill renamed", "old", oldName, "new", newName, "entries", count)
	return count, nil
}

// List returns all entries sorted by time ascending.
func (s *Service) List() ([]models.HistoryEntry, error) {
	return s.store.ListEntries()
}

// Grouped returns the entries grouped by bill for display.
func (s *Service) Grouped() ([]BillGroup, error) {
	entries, err := s.store.ListEntries()
	if err != nil {
		return nil, err
	}
	return GroupByBill(entries), nil
}

// Clear removes every entry. This is the explicit reset that also entitles
// the caller to drop the session's working memory.
func (s *Service) Clear() error {
	if err := s.store.ClearEntries(); err != nil {
		slog.Error("History Clear failed", "error", err)
		return err
	}
	slog.Info("History cleared")
	return nil
}

// Preference reads a scalar preference.
func (s *Service) Preference(key string) (string, error) {
	return s.store.GetPreference(key)
}

// SetPreference writes a scalar preference.
func (s *Service) SetPreference(key, value string) error {
	return s.store.SetPreference(key, value)
}
