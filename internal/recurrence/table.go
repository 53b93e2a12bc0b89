// Package recurrence holds the single table that maps recurrence kinds to
// their spacing and projection horizon.
package recurrence

import (
	"fmt"
	"strings"

	"github.com/Dan9191/ledger-service/internal/models"
)

// Rule describes how a recurrence kind expands
type Rule struct {
	IntervalMonths int // months between occurrences, > 0 for recurring kinds
	Horizon        int // future occurrences to project, >= 0
}

var table = map[models.RecurrenceKind]Rule{
	models.RecurrenceMonthly:   {IntervalMonths: 1, Horizon: 24},
	models.RecurrenceBimonthly: {IntervalMonths: 2, Horizon: 12},
	models.RecurrenceQuarterly: {IntervalMonths: 3, Horizon: 8},
	models.RecurrenceBiannual:  {IntervalMonths: 6, Horizon: 4},
	models.RecurrenceAnnual:    {IntervalMonths: 12, Horizon: 2},
}

// Lookup returns the rule for kind. Non-recurring kinds report false.
func Lookup(kind models.RecurrenceKind) (Rule, bool) {
	r, ok := table[kind]
	return r, ok
}

// IntervalMonths returns the months between occurrences, 0 when kind does not repeat
func IntervalMonths(kind models.RecurrenceKind) int {
	return table[kind].IntervalMonths
}

// Horizon returns how many future occurrences kind projects, 0 when kind does not repeat
func Horizon(kind models.RecurrenceKind) int {
	return table[kind].Horizon
}

// labels accepts both the English keys and the Portuguese labels used by forms
var labels = map[string]models.RecurrenceKind{
	"":           models.RecurrenceNone,
	"none":       models.RecurrenceNone,
	"once":       models.RecurrenceNone,
	"nenhuma":    models.RecurrenceNone,
	"unica":      models.RecurrenceNone,
	"única":      models.RecurrenceNone,
	"monthly":    models.RecurrenceMonthly,
	"mensal":     models.RecurrenceMonthly,
	"bimonthly":  models.RecurrenceBimonthly,
	"bimestral":  models.RecurrenceBimonthly,
	"quarterly":  models.RecurrenceQuarterly,
	"trimestral": models.RecurrenceQuarterly,
	"biannual":   models.RecurrenceBiannual,
	"semiannual": models.RecurrenceBiannual,
	"semestral":  models.RecurrenceBiannual,
	"annual":     models.RecurrenceAnnual,
	"yearly":     models.RecurrenceAnnual,
	"anual":      models.RecurrenceAnnual,
}

// ParseKind normalizes a recurrence label into a kind
func ParseKind(label string) (models.RecurrenceKind, error) {
	kind, ok := labels[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", fmt.Errorf("unknown recurrence %q", label)
	}
	return kind, nil
}
