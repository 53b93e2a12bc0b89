package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/Dan9191/ledger-service/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// fakeStore wraps the in-memory repository, counts writes and injects failures
type fakeStore struct {
	*repository.MemoryStore

	mu           sync.Mutex
	writes       int
	entriesErr   error
	contractsErr error
	insertErr    error
	updateErr    error
	updateGate   chan struct{} // when set, UpdateEntryStatus blocks until it is closed
	updateEnter  chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{MemoryStore: repository.NewMemoryStore()}
}

func (f *fakeStore) QueryEntries(ctx context.Context, filter models.EntryFilter) ([]models.LedgerEntry, error) {
	if f.entriesErr != nil {
		return nil, f.entriesErr
	}
	return f.MemoryStore.QueryEntries(ctx, filter)
}

func (f *fakeStore) QueryContracts(ctx context.Context, userID string) ([]models.Contract, error) {
	if f.contractsErr != nil {
		return nil, f.contractsErr
	}
	return f.MemoryStore.QueryContracts(ctx, userID)
}

func (f *fakeStore) InsertEntry(ctx context.Context, entry models.NewLedgerEntry) (models.LedgerEntry, error) {
	f.countWrite()
	if f.insertErr != nil {
		return models.LedgerEntry{}, f.insertErr
	}
	return f.MemoryStore.InsertEntry(ctx, entry)
}

func (f *fakeStore) UpdateEntryStatus(ctx context.Context, userID, id string, status models.Status) error {
	f.countWrite()
	if f.updateEnter != nil {
		f.updateEnter <- struct{}{}
	}
	if f.updateGate != nil {
		<-f.updateGate
	}
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.MemoryStore.UpdateEntryStatus(ctx, userID, id, status)
}

func (f *fakeStore) countWrite() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
}

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

const testUser = "u1"

var march2024 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(store Store) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(store, log, WithClock(func() time.Time { return march2024 }))
}

func acmeContract() models.Contract {
	return models.Contract{
		ClientID:         "c1",
		ClientName:       "Acme",
		MonthlyValue:     decimal.NewFromInt(1000),
		RecurringPayment: true,
		Status:           models.ClientActive,
		ContractStart:    "2024-01-01",
	}
}

func rentAnchor() models.LedgerEntry {
	return models.LedgerEntry{
		ID:          "t1",
		UserID:      testUser,
		Date:        "2024-01-15",
		Description: "Aluguel",
		Category:    "Moradia",
		Type:        models.TypeExpense,
		Value:       decimal.NewFromInt(500),
		Status:      models.StatusCompleted,
		Recurrence:  models.RecurrenceMonthly,
	}
}

func contractPayment(id, date, clientID string) models.LedgerEntry {
	return models.LedgerEntry{
		ID:          id,
		UserID:      testUser,
		Date:        date,
		Description: "Contrato mensal - Acme",
		Category:    models.ContractCategory,
		Type:        models.TypeIncome,
		Value:       decimal.NewFromInt(1000),
		Status:      models.StatusCompleted,
		Recurrence:  models.RecurrenceNone,
		ClientID:    clientID,
	}
}

// contractItems returns the contract-derived items of a view keyed by period
func contractItems(view *models.LedgerView, clientID string) map[models.PeriodKey][]models.ViewItem {
	out := make(map[models.PeriodKey][]models.ViewItem)
	for _, item := range view.Items {
		if item.ClientID() != clientID {
			continue
		}
		if item.Virtual() {
			if item.Ref().Kind == models.RefContract {
				out[item.Occurrence.PeriodKey] = append(out[item.Occurrence.PeriodKey], item)
			}
			continue
		}
		if isContractEntry(*item.Entry) {
			p, _ := models.PeriodOfDate(item.Entry.Date)
			out[p] = append(out[p], item)
		}
	}
	return out
}
