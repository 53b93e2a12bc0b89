package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory ledger store, safe for concurrent use.
// Data is lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]models.LedgerEntry
	contracts map[string]map[string]models.Contract // user id -> client id -> contract
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:   make(map[string]models.LedgerEntry),
		contracts: make(map[string]map[string]models.Contract),
		now:       time.Now,
	}
}

// PutContract creates or replaces the contract terms of a client
func (s *MemoryStore) PutContract(userID string, c models.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contracts[userID] == nil {
		s.contracts[userID] = make(map[string]models.Contract)
	}
	s.contracts[userID][c.ClientID] = c
}

// QueryEntries retrieves the entries of a user that match the filter, ordered by date
func (s *MemoryStore) QueryEntries(ctx context.Context, filter models.EntryFilter) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.LedgerEntry
	for _, e := range s.entries {
		if e.UserID != filter.UserID {
			continue
		}
		if filter.ClientID != "" && e.ClientID != filter.ClientID {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.RecurringOnly && !e.Recurrence.Recurring() {
			continue
		}
		if filter.From != "" && e.Date < filter.From {
			continue
		}
		if filter.To != "" && e.Date > filter.To {
			continue
		}
		result = append(result, e)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// QueryContracts retrieves the contract terms of every client of a user
func (s *MemoryStore) QueryContracts(ctx context.Context, userID string) ([]models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Contract, 0, len(s.contracts[userID]))
	for _, c := range s.contracts[userID] {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClientID < result[j].ClientID })
	return result, nil
}

// InsertEntry stores a new entry under a fresh id
func (s *MemoryStore) InsertEntry(ctx context.Context, entry models.NewLedgerEntry) (models.LedgerEntry, error) {
	period, err := models.PeriodOfDate(entry.Date)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Category == models.ContractCategory && entry.ClientID != "" {
		if _, ok := s.findContractEntry(entry.UserID, entry.ClientID, period); ok {
			return models.LedgerEntry{}, fmt.Errorf("%w: client %s period %s", ErrDuplicate, entry.ClientID, period)
		}
	}

	ts := s.now().UTC().Format(time.RFC3339)
	created := models.LedgerEntry{
		ID:          uuid.NewString(),
		UserID:      entry.UserID,
		Date:        entry.Date,
		Description: entry.Description,
		Category:    entry.Category,
		Type:        entry.Type,
		Value:       entry.Value,
		Status:      entry.Status,
		Recurrence:  entry.Recurrence,
		ClientID:    entry.ClientID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if created.Recurrence == "" {
		created.Recurrence = models.RecurrenceNone
	}
	s.entries[created.ID] = created
	return created, nil
}

// Seed stores an entry as-is, keeping its id. Used to load fixtures,
// including entries whose date would be rejected by InsertEntry.
func (s *MemoryStore) Seed(entry models.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
}

// UpdateEntryStatus sets the status of an entry owned by userID
func (s *MemoryStore) UpdateEntryStatus(ctx context.Context, userID, id string, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	s.entries[id] = e
	return nil
}

// FindContractEntry returns the entry that materialized a client's contract month
func (s *MemoryStore) FindContractEntry(ctx context.Context, userID, clientID string, period models.PeriodKey) (models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.findContractEntry(userID, clientID, period)
	if !ok {
		return models.LedgerEntry{}, ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) findContractEntry(userID, clientID string, period models.PeriodKey) (models.LedgerEntry, bool) {
	for _, e := range s.entries {
		if e.UserID != userID || e.ClientID != clientID || e.Category != models.ContractCategory {
			continue
		}
		if p, err := models.PeriodOfDate(e.Date); err == nil && p == period {
			return e, true
		}
	}
	return models.LedgerEntry{}, false
}

// MarkOverdue flags every pending entry dated before the given day as overdue
func (s *MemoryStore) MarkOverdue(ctx context.Context, before string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	ts := s.now().UTC().Format(time.RFC3339)
	for id, e := range s.entries {
		if e.Status == models.StatusPending && e.Date < before {
			e.Status = models.StatusOverdue
			e.UpdatedAt = ts
			s.entries[id] = e
			n++
		}
	}
	return n, nil
}
