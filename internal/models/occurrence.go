package models

import "github.com/shopspring/decimal"

// VirtualOccurrence is a projected obligation with no backing record.
// It is rebuilt on every view request.
type VirtualOccurrence struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	SourceID    string          `json:"source_id"`
	PeriodKey   PeriodKey       `json:"period_key"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        EntryType       `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Status      Status          `json:"status"`
	Recurrence  RecurrenceKind  `json:"recurrence,omitempty"`
	ClientID    string          `json:"client_id,omitempty"`

	ref EntryRef
}

// NewOccurrence builds an occurrence whose identity is derived from ref
func NewOccurrence(ref EntryRef) VirtualOccurrence {
	return VirtualOccurrence{
		ID:        ref.String(),
		Kind:      ref.Kind.String(),
		SourceID:  ref.SourceID,
		PeriodKey: ref.Period,
		Status:    StatusPending,
		ref:       ref,
	}
}

// Ref returns the typed identity of the occurrence
func (o VirtualOccurrence) Ref() EntryRef {
	return o.ref
}

// ViewItem is one row of a reconciled ledger view: either a persisted entry
// or a virtual occurrence, never both.
type ViewItem struct {
	Entry      *LedgerEntry       `json:"entry,omitempty"`
	Occurrence *VirtualOccurrence `json:"occurrence,omitempty"`
}

// Ref returns the identity of the item
func (i ViewItem) Ref() EntryRef {
	if i.Occurrence != nil {
		return i.Occurrence.Ref()
	}
	return RealRef(i.Entry.ID)
}

// ID returns the caller-facing id
func (i ViewItem) ID() string {
	if i.Occurrence != nil {
		return i.Occurrence.ID
	}
	return i.Entry.ID
}

// Date returns the canonical date of the item
func (i ViewItem) Date() string {
	if i.Occurrence != nil {
		return i.Occurrence.Date
	}
	return i.Entry.Date
}

// Virtual reports whether the item is projected
func (i ViewItem) Virtual() bool {
	return i.Occurrence != nil
}

// Type returns the entry direction
func (i ViewItem) Type() EntryType {
	if i.Occurrence != nil {
		return i.Occurrence.Type
	}
	return i.Entry.Type
}

// Value returns the amount
func (i ViewItem) Value() decimal.Decimal {
	if i.Occurrence != nil {
		return i.Occurrence.Value
	}
	return i.Entry.Value
}

// Status returns the settlement status; always pending for virtual items
func (i ViewItem) Status() Status {
	if i.Occurrence != nil {
		return i.Occurrence.Status
	}
	return i.Entry.Status
}

// ClientID returns the client the item belongs to, if any
func (i ViewItem) ClientID() string {
	if i.Occurrence != nil {
		return i.Occurrence.ClientID
	}
	return i.Entry.ClientID
}
