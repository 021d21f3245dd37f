// Package history provides storage backends for finalized statements.
//
// It includes an in-memory store for tests and single sessions, plus
// SQLite- and PostgreSQL-backed stores selected by DSN. Every mutation is
// written through to the backend; load re-sorts by time.
package history

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// Preference keys for the scalar settings persisted alongside the history.
const (
	PrefSelectedCommittee = "selectedCommittee"
	PrefCurrentBill       = "currentBill"
	PrefBillType          = "billType"
)

// Store is the durable persistence seam for history entries and preferences.
type Store interface {
	AddEntry(entry models.HistoryEntry) error
	GetEntry(id string) (*models.HistoryEntry, error)
	UpdateEntry(entry models.HistoryEntry) error
	DeleteEntry(id string) error
	// ListEntries returns all entries sorted by time ascending.
	ListEntries() ([]models.HistoryEntry, error)
	// RenameBill updates every entry whose bill matches old and returns the count.
	RenameBill(oldName, newName string) (int, error)
	ClearEntries() error
	GetPreference(key string) (string, error)
	SetPreference(key, value string) error
	Close() error
}

// Opts holds configuration options for store constructors.
type Opts struct {
	DSN string
}

// Option configures a store constructor.
type Option func(*Opts)

// WithDSN sets the database DSN for a store constructor.
func WithDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// InMemoryStore is a mutex-guarded in-memory Store.
type InMemoryStore struct {
	mu      sync.Mutex
	entries []models.HistoryEntry
	prefs   map[string]string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{prefs: make(map[string]string)}
}

func (s *InMemoryStore) AddEntry(entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) GetEntry(id string) (*models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			entry := s.entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) UpdateEntry(entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i] = entry
			return nil
		}
	}
	return models.ErrEntryNotFound
}

func (s *InMemoryStore) DeleteEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return models.ErrEntryNotFound
}

func (s *InMemoryStore) ListEntries() ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func (s *InMemoryStore) RenameBill(oldName, newName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for i := range s.entries {
		if s.entries[i].Bill == oldName {
			s.entries[i].Bill = newName
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) ClearEntries() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

func (s *InMemoryStore) GetPreference(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs[key], nil
}

func (s *InMemoryStore) SetPreference(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[key] = value
	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

// BillGroup is one bill's entries prepared for display.
type BillGroup struct {
	Bill    string                `json:"bill"`
	Entries []models.HistoryEntry `json:"entries"`
}

// GroupByBill groups entries for display: groups ordered by each group's
// earliest entry time descending, entries within a group by time descending.
func GroupByBill(entries []models.HistoryEntry) []BillGroup {
	byBill := make(map[string][]models.HistoryEntry)
	for _, entry := range entries {
		bill := models.NormalizeBill(entry.Bill)
		byBill[bill] = append(byBill[bill], entry)
	}
	groups := make([]BillGroup, 0, len(byBill))
	for bill, group := range byBill {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Time.After(group[j].Time) })
		groups = append(groups, BillGroup{Bill: bill, Entries: group})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return earliest(groups[i].Entries).After(earliest(groups[j].Entries))
	})
	return groups
}

// earliest returns the earliest entry time of a non-empty group.
func earliest(entries []models.HistoryEntry) time.Time {
	min := entries[0].Time
	for _, entry := range entries[1:] {
		if entry.Time.Before(min) {
			min = entry.Time
		}
	}
	return min
}

// validateEntry guards the invariants a store relies on.
func validateEntry(entry models.HistoryEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("history entry has no ID")
	}
	return nil
}
