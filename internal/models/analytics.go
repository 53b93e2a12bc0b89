package models

import "github.com/shopspring/decimal"

// ViewTotals summarizes the items of a ledger view
type ViewTotals struct {
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	NetBalance decimal.Decimal `json:"net_balance"`
	Pending    decimal.Decimal `json:"pending"`
	Completed  decimal.Decimal `json:"completed"`
	Overdue    decimal.Decimal `json:"overdue"`
}

// Add accumulates one item into the totals
func (t *ViewTotals) Add(item ViewItem) {
	v := item.Value()
	switch item.Type() {
	case TypeIncome:
		t.Income = t.Income.Add(v)
		t.NetBalance = t.NetBalance.Add(v)
	case TypeExpense:
		t.Expense = t.Expense.Add(v)
		t.NetBalance = t.NetBalance.Sub(v)
	}
	switch item.Status() {
	case StatusPending:
		t.Pending = t.Pending.Add(v)
	case StatusCompleted:
		t.Completed = t.Completed.Add(v)
	case StatusOverdue:
		t.Overdue = t.Overdue.Add(v)
	}
}

// LedgerView is a reconciled, date-ordered view of real and projected entries
type LedgerView struct {
	Items   []ViewItem    `json:"items"`
	Totals  ViewTotals    `json:"totals"`
	Skipped []SkippedItem `json:"skipped,omitempty"`
	// ContractsUnavailable is set when contracts could not be fetched and
	// the view holds recurrence projections only.
	ContractsUnavailable bool `json:"contracts_unavailable,omitempty"`
}

// SkippedItem records an anchor or contract that could not be projected
type SkippedItem struct {
	SourceID string `json:"source_id"`
	Reason   string `json:"reason"`
}
