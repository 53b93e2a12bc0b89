package service

import (
	"context"
	"time"

	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Store is the persistence collaborator the service reads and writes through
type Store interface {
	QueryEntries(ctx context.Context, filter models.EntryFilter) ([]models.LedgerEntry, error)
	QueryContracts(ctx context.Context, userID string) ([]models.Contract, error)
	InsertEntry(ctx context.Context, entry models.NewLedgerEntry) (models.LedgerEntry, error)
	UpdateEntryStatus(ctx context.Context, userID, id string, status models.Status) error
	FindContractEntry(ctx context.Context, userID, clientID string, period models.PeriodKey) (models.LedgerEntry, error)
	MarkOverdue(ctx context.Context, before string) (int64, error)
}

// Service handles ledger views and the commands that mutate entries
type Service struct {
	store    Store
	log      *logrus.Logger
	now      func() time.Time
	inflight *InFlight
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the source of "today"
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		log:      log,
		now:      time.Now,
		inflight: NewInFlight(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// today returns the current calendar date at UTC midnight
func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
