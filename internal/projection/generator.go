// Package projection expands persisted anchors and client contracts into
// virtual future obligations. Everything here is pure: same inputs, same
// output.
package projection

import (
	"errors"
	"fmt"

	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/Dan9191/ledger-service/internal/recurrence"
)

// ErrInvalidDate is returned when an anchor or contract date cannot be parsed
var ErrInvalidDate = errors.New("invalid date")

// RecurringSuffix annotates descriptions of recurrence-derived occurrences
const RecurringSuffix = " (Recorrente)"

// Generate expands a recurring anchor entry into its future occurrences,
// at anchor.date + i*interval for i = 1..horizon. Non-recurring anchors
// yield nothing.
func Generate(anchor models.LedgerEntry) ([]models.VirtualOccurrence, error) {
	rule, ok := recurrence.Lookup(anchor.Recurrence)
	if !ok || rule.Horizon == 0 {
		return nil, nil
	}

	start, err := models.ParseDate(anchor.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: anchor %s: %v", ErrInvalidDate, anchor.ID, err)
	}

	out := make([]models.VirtualOccurrence, 0, rule.Horizon)
	for i := 1; i <= rule.Horizon; i++ {
		date := AddMonths(start, i*rule.IntervalMonths)
		occ := models.NewOccurrence(models.RecurrenceRef(anchor.ID, i, models.PeriodOf(date)))
		occ.Date = models.FormatDate(date)
		occ.Description = anchor.Description + RecurringSuffix
		occ.Category = anchor.Category
		occ.Type = anchor.Type
		occ.Value = anchor.Value
		occ.Recurrence = anchor.Recurrence
		occ.ClientID = anchor.ClientID
		out = append(out, occ)
	}
	return out, nil
}
