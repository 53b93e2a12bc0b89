package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/ledger-service/internal/models"
)

// SweepOverdue marks every real pending entry dated before today as overdue.
// Projections are never touched; they have no record.
func (s *Service) SweepOverdue(ctx context.Context) (int64, error) {
	today := models.FormatDate(s.today())
	n, err := s.store.MarkOverdue(ctx, today)
	if err != nil {
		s.log.Errorf("Overdue sweep failed: %v", err)
		return 0, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	s.log.WithField("before", today).Infof("Marked %d entries overdue", n)
	return n, nil
}

// UpcomingDue returns the pending items, real or projected, due between
// today and today+days inclusive.
func (s *Service) UpcomingDue(ctx context.Context, userID string, days int) ([]models.ViewItem, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative", ErrInvalidInput)
	}
	today := s.today()
	view, err := s.GetLedgerView(ctx, userID, Scope{
		From: models.FormatDate(today),
		To:   models.FormatDate(today.AddDate(0, 0, days)),
	})
	if err != nil {
		return nil, err
	}

	var due []models.ViewItem
	for _, item := range view.Items {
		if item.Status() == models.StatusPending {
			due = append(due, item)
		}
	}
	return due, nil
}
