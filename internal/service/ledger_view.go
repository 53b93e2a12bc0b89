package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/Dan9191/ledger-service/internal/projection"
	"github.com/sirupsen/logrus"
)

// Order is the date direction of a view
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Scope selects what a ledger view covers. Empty fields do not filter.
type Scope struct {
	ClientID string
	Type     models.EntryType
	From     string // inclusive, YYYY-MM-DD
	To       string // inclusive, YYYY-MM-DD
	Order    Order
}

// Validate checks the scope fields
func (sc Scope) Validate() error {
	if sc.Type != "" && !sc.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, sc.Type)
	}
	for _, d := range []string{sc.From, sc.To} {
		if d == "" {
			continue
		}
		if _, err := models.ParseDate(d); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if sc.From != "" && sc.To != "" && sc.From > sc.To {
		return fmt.Errorf("%w: from %s is after to %s", ErrInvalidInput, sc.From, sc.To)
	}
	switch sc.Order {
	case "", OrderAsc, OrderDesc:
	default:
		return fmt.Errorf("%w: unknown order %q", ErrInvalidInput, sc.Order)
	}
	return nil
}

func (sc Scope) contains(item models.ViewItem) bool {
	if sc.ClientID != "" && item.ClientID() != sc.ClientID {
		return false
	}
	if sc.Type != "" && item.Type() != sc.Type {
		return false
	}
	if sc.From != "" && item.Date() < sc.From {
		return false
	}
	if sc.To != "" && item.Date() > sc.To {
		return false
	}
	return true
}

// GetLedgerView builds the reconciled view of a user's ledger for scope.
// A failure to read entries fails the view; a failure to read contracts
// degrades it to recurrence projections only.
func (s *Service) GetLedgerView(ctx context.Context, userID string, scope Scope) (*models.LedgerView, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	log := s.log.WithField("user_id", userID)

	entries, err := s.fetchEntries(ctx, userID, scope)
	if err != nil {
		log.Errorf("Failed to fetch entries: %v", err)
		return nil, fmt.Errorf("%w: entries: %v", ErrFetchFailure, err)
	}

	var (
		contracts   []models.Contract
		unavailable bool
	)
	if scope.Type != models.TypeExpense {
		contracts, err = s.store.QueryContracts(ctx, userID)
		if err != nil {
			log.Warnf("Failed to fetch contracts, projecting recurrences only: %v", err)
			unavailable = true
		}
	}
	if scope.ClientID != "" {
		contracts = slices.DeleteFunc(contracts, func(c models.Contract) bool {
			return c.ClientID != scope.ClientID
		})
	}

	view := Reconcile(entries, contracts, s.today())
	view.ContractsUnavailable = unavailable
	for _, sk := range view.Skipped {
		log.WithField("source_id", sk.SourceID).Warnf("Skipped projection: %s", sk.Reason)
	}

	items := view.Items[:0]
	for _, item := range view.Items {
		if scope.contains(item) {
			items = append(items, item)
		}
	}
	if scope.Order == OrderDesc {
		slices.Reverse(items)
	}
	view.Items = items
	view.Totals = models.ViewTotals{}
	for _, item := range items {
		view.Totals.Add(item)
	}

	log.WithFields(logrus.Fields{
		"items":   len(view.Items),
		"skipped": len(view.Skipped),
	}).Debug("Ledger view built")
	return view, nil
}

// fetchEntries loads the real entries of the scope plus every recurring
// anchor dated before it, since those still project into the range.
func (s *Service) fetchEntries(ctx context.Context, userID string, scope Scope) ([]models.LedgerEntry, error) {
	filter := entryFilter(userID, scope)
	entries, err := s.store.QueryEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	if filter.From == "" {
		return entries, nil
	}

	filter.From = ""
	filter.RecurringOnly = true
	anchors, err := s.store.QueryEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[e.ID] = true
	}
	for _, a := range anchors {
		if !known[a.ID] {
			entries = append(entries, a)
		}
	}
	return entries, nil
}

// entryFilter widens the scope's date range to whole months so that a
// materialized contract month is always visible to deduplication.
func entryFilter(userID string, scope Scope) models.EntryFilter {
	filter := models.EntryFilter{
		UserID:   userID,
		ClientID: scope.ClientID,
		Type:     scope.Type,
	}
	if t, err := models.ParseDate(scope.From); err == nil {
		filter.From = models.FormatDate(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))
	}
	if t, err := models.ParseDate(scope.To); err == nil {
		filter.To = models.FormatDate(time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC))
	}
	return filter
}

type periodSlot struct {
	kind     models.RefKind
	sourceID string
	period   models.PeriodKey
}

// Reconcile merges persisted entries with the occurrences projected from
// recurring anchors and from contracts. A contract month that already has a
// real contract entry for the same client is not projected. The result is
// ordered by date, then id.
func Reconcile(entries []models.LedgerEntry, contracts []models.Contract, today time.Time) *models.LedgerView {
	view := &models.LedgerView{}

	materialized := make(map[periodSlot]bool)
	for i := range entries {
		e := entries[i]
		view.Items = append(view.Items, models.ViewItem{Entry: &e})

		if e.ClientID == "" || !isContractEntry(e) {
			continue
		}
		if p, err := models.PeriodOfDate(e.Date); err == nil {
			materialized[periodSlot{models.RefContract, e.ClientID, p}] = true
		}
	}

	seen := make(map[periodSlot]bool)
	appendOccurrences := func(occs []models.VirtualOccurrence) {
		for i := range occs {
			o := occs[i]
			slot := periodSlot{o.Ref().Kind, o.SourceID, o.PeriodKey}
			if seen[slot] || materialized[slot] {
				continue
			}
			seen[slot] = true
			view.Items = append(view.Items, models.ViewItem{Occurrence: &o})
		}
	}

	for _, e := range entries {
		if !e.Recurrence.Recurring() {
			continue
		}
		occs, err := projection.Generate(e)
		if err != nil {
			view.Skipped = append(view.Skipped, models.SkippedItem{SourceID: e.ID, Reason: err.Error()})
			continue
		}
		appendOccurrences(occs)
	}

	for _, c := range contracts {
		occs, err := projection.ProjectContract(c, today)
		if err != nil {
			view.Skipped = append(view.Skipped, models.SkippedItem{SourceID: c.ClientID, Reason: err.Error()})
			continue
		}
		appendOccurrences(occs)
	}

	sort.SliceStable(view.Items, func(i, j int) bool {
		a, b := view.Items[i], view.Items[j]
		if a.Date() != b.Date() {
			return a.Date() < b.Date()
		}
		return a.ID() < b.ID()
	})

	for _, item := range view.Items {
		view.Totals.Add(item)
	}
	return view
}

func isContractEntry(e models.LedgerEntry) bool {
	return e.Category == models.ContractCategory || strings.Contains(e.Description, models.ContractCategory)
}
