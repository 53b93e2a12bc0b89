package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/Dan9191/ledger-service/internal/recurrence"
	"github.com/Dan9191/ledger-service/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// EntryInput is a transaction as submitted by a user
type EntryInput struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Status      string          `json:"status"`
	Recurrence  string          `json:"recurrence"`
	ClientID    string          `json:"client_id"`
}

// CreateEntry validates and records a new transaction
func (s *Service) CreateEntry(ctx context.Context, userID string, in EntryInput) (*models.LedgerEntry, error) {
	entry, err := in.normalize(userID)
	if err != nil {
		return nil, err
	}

	created, err := s.store.InsertEntry(ctx, entry)
	if errors.Is(err, repository.ErrDuplicate) {
		s.log.WithField("user_id", userID).Debugf("Entry rejected: %v", err)
		return nil, fmt.Errorf("%w: client %s, %s", ErrConflict, entry.ClientID, entry.Date)
	}
	if err != nil {
		s.log.WithField("user_id", userID).Errorf("Failed to create entry: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"entry_id":   created.ID,
		"recurrence": created.Recurrence,
	}).Info("Entry created")
	return &created, nil
}

func (in EntryInput) normalize(userID string) (models.NewLedgerEntry, error) {
	if userID == "" {
		return models.NewLedgerEntry{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if _, err := models.ParseDate(in.Date); err != nil {
		return models.NewLedgerEntry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return models.NewLedgerEntry{}, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	typ := models.EntryType(strings.ToLower(in.Type))
	if !typ.Valid() {
		return models.NewLedgerEntry{}, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, in.Type)
	}
	if in.Value.IsNegative() {
		return models.NewLedgerEntry{}, fmt.Errorf("%w: value must not be negative", ErrInvalidInput)
	}
	status := models.StatusPending
	if in.Status != "" {
		status = models.Status(strings.ToLower(in.Status))
		if !status.Valid() {
			return models.NewLedgerEntry{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
		}
	}
	kind, err := recurrence.ParseKind(in.Recurrence)
	if err != nil {
		return models.NewLedgerEntry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return models.NewLedgerEntry{
		UserID:      userID,
		Date:        in.Date,
		Description: desc,
		Category:    strings.TrimSpace(in.Category),
		Type:        typ,
		Value:       in.Value,
		Status:      status,
		Recurrence:  kind,
		ClientID:    strings.TrimSpace(in.ClientID),
	}, nil
}
