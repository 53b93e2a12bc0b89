package models

import "github.com/shopspring/decimal"

// EntryType is the direction of a ledger entry
type EntryType string

const (
	TypeIncome  EntryType = "income"
	TypeExpense EntryType = "expense"
)

// Valid reports whether t is a known entry type
func (t EntryType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Status is the settlement state of a ledger entry
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// ContractCategory marks entries that settle a month of a client contract.
const ContractCategory = "Contrato"

// LedgerEntry represents a persisted financial transaction
type LedgerEntry struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Date        string          `json:"date"` // Format: YYYY-MM-DD
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        EntryType       `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Status      Status          `json:"status"`
	Recurrence  RecurrenceKind  `json:"recurrence"`
	ClientID    string          `json:"client_id,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}

// NewLedgerEntry is the insert payload; the store assigns the id
type NewLedgerEntry struct {
	UserID      string          `json:"-"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        EntryType       `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Status      Status          `json:"status"`
	Recurrence  RecurrenceKind  `json:"recurrence"`
	ClientID    string          `json:"client_id,omitempty"`
}

// EntryFilter narrows an entry query. UserID is required.
type EntryFilter struct {
	UserID   string
	ClientID string
	Type     EntryType
	From     string // inclusive, YYYY-MM-DD
	To       string // inclusive, YYYY-MM-DD
	// RecurringOnly restricts the result to entries that declare a recurrence.
	RecurringOnly bool
}
