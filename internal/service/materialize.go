package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/Dan9191/ledger-service/internal/projection"
	"github.com/Dan9191/ledger-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// CommandResult describes the outcome of a status command
type CommandResult struct {
	ID     string              `json:"id"`
	Status models.Status       `json:"status"`
	Entry  *models.LedgerEntry `json:"entry,omitempty"` // set when a contract month was materialized
}

// Complete marks an entry as received. A real entry is updated in place.
// A contract-derived projection is materialized into a new completed entry.
// Recurrence-derived projections are rejected without a write.
func (s *Service) Complete(ctx context.Context, userID, id string) (*CommandResult, error) {
	return s.runCommand(ctx, userID, id, models.StatusCompleted, func(ref models.EntryRef) (*CommandResult, error) {
		switch ref.Kind {
		case models.RefReal:
			return s.updateStatus(ctx, userID, ref, models.StatusCompleted)
		case models.RefContract:
			return s.materializeContract(ctx, userID, ref)
		default:
			return nil, fmt.Errorf("%w: a projected future recurrence cannot be completed; record the transaction instead", ErrInvalidMaterialization)
		}
	})
}

// SetPending marks a real entry as pending. Projections are rejected.
func (s *Service) SetPending(ctx context.Context, userID, id string) (*CommandResult, error) {
	return s.setRealStatus(ctx, userID, id, models.StatusPending)
}

// SetOverdue marks a real entry as overdue. Projections are rejected.
func (s *Service) SetOverdue(ctx context.Context, userID, id string) (*CommandResult, error) {
	return s.setRealStatus(ctx, userID, id, models.StatusOverdue)
}

func (s *Service) setRealStatus(ctx context.Context, userID, id string, status models.Status) (*CommandResult, error) {
	return s.runCommand(ctx, userID, id, status, func(ref models.EntryRef) (*CommandResult, error) {
		if ref.Virtual() {
			return nil, fmt.Errorf("%w: a %s entry has no record to mark as %s", ErrInvalidMaterialization, ref.Kind, status)
		}
		return s.updateStatus(ctx, userID, ref, status)
	})
}

// runCommand decodes id, holds the single-flight slot for it while fn runs
// and logs the outcome.
func (s *Service) runCommand(ctx context.Context, userID, id string, status models.Status, fn func(models.EntryRef) (*CommandResult, error)) (*CommandResult, error) {
	ref, err := models.ParseEntryRef(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	key := userID + "/" + ref.String()
	if !s.inflight.Acquire(key) {
		return nil, ErrInFlight
	}
	defer s.inflight.Release(key)

	log := s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"entry_id": id,
		"status":   status,
	})

	res, err := fn(ref)
	switch {
	case err == nil:
		log.Info("Entry status changed")
	case errors.Is(err, ErrInvalidMaterialization):
		log.Debugf("Command rejected: %v", err)
	case errors.Is(err, ErrNotFound):
		log.Debugf("Command target missing: %v", err)
	default:
		log.Errorf("Command failed: %v", err)
	}
	return res, err
}

func (s *Service) updateStatus(ctx context.Context, userID string, ref models.EntryRef, status models.Status) (*CommandResult, error) {
	if err := s.store.UpdateEntryStatus(ctx, userID, ref.ID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ref.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return &CommandResult{ID: ref.ID, Status: status}, nil
}

// materializeContract persists a projected contract month. If the month is
// already materialized the existing entry is returned and nothing is written.
func (s *Service) materializeContract(ctx context.Context, userID string, ref models.EntryRef) (*CommandResult, error) {
	occ, err := s.findContractOccurrence(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	existing, found, err := s.findMaterializedMonth(ctx, userID, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	if found {
		return materialized(existing), nil
	}

	created, err := s.store.InsertEntry(ctx, models.NewLedgerEntry{
		UserID:      userID,
		Date:        occ.Date,
		Description: occ.Description,
		Category:    models.ContractCategory,
		Type:        models.TypeIncome,
		Value:       occ.Value,
		Status:      models.StatusCompleted,
		Recurrence:  models.RecurrenceNone,
		ClientID:    occ.ClientID,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// another session materialized the month first
		existing, ferr := s.store.FindContractEntry(ctx, userID, ref.SourceID, ref.Period)
		if ferr != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteFailure, err)
		}
		return materialized(existing), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return materialized(created), nil
}

// findMaterializedMonth looks for a real entry that already settles the
// client's month, using the same rule that hides the month from the view.
func (s *Service) findMaterializedMonth(ctx context.Context, userID string, ref models.EntryRef) (models.LedgerEntry, bool, error) {
	first, last, err := ref.Period.Bounds()
	if err != nil {
		return models.LedgerEntry{}, false, err
	}
	entries, err := s.store.QueryEntries(ctx, models.EntryFilter{
		UserID:   userID,
		ClientID: ref.SourceID,
		From:     first,
		To:       last,
	})
	if err != nil {
		return models.LedgerEntry{}, false, err
	}
	for _, e := range entries {
		if isContractEntry(e) {
			return e, true, nil
		}
	}
	return models.LedgerEntry{}, false, nil
}

func materialized(e models.LedgerEntry) *CommandResult {
	return &CommandResult{ID: e.ID, Status: e.Status, Entry: &e}
}

// findContractOccurrence re-projects the client's contract and returns the
// occurrence for ref's period.
func (s *Service) findContractOccurrence(ctx context.Context, userID string, ref models.EntryRef) (models.VirtualOccurrence, error) {
	contracts, err := s.store.QueryContracts(ctx, userID)
	if err != nil {
		return models.VirtualOccurrence{}, fmt.Errorf("%w: contracts: %v", ErrFetchFailure, err)
	}

	for _, c := range contracts {
		if c.ClientID != ref.SourceID {
			continue
		}
		occs, err := projection.ProjectContract(c, s.today())
		if err != nil {
			return models.VirtualOccurrence{}, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		for _, occ := range occs {
			if occ.PeriodKey == ref.Period {
				return occ, nil
			}
		}
		break
	}
	return models.VirtualOccurrence{}, fmt.Errorf("%w: no contract obligation %s", ErrNotFound, ref)
}
