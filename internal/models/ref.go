package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RefKind distinguishes persisted entries from the two kinds of projections
type RefKind int

const (
	RefReal RefKind = iota
	RefRecurrence
	RefContract
)

func (k RefKind) String() string {
	switch k {
	case RefRecurrence:
		return "recurrence-derived"
	case RefContract:
		return "contract-derived"
	default:
		return "real"
	}
}

const (
	recurrenceInfix = "-recurrence-"
	contractPrefix  = "contract-"
)

// EntryRef identifies an item of a ledger view.
//
// Real refs carry the store id. Recurrence refs carry the anchor id and the
// occurrence index (1-based). Contract refs carry the client id and period.
type EntryRef struct {
	Kind     RefKind
	ID       string
	SourceID string
	Index    int
	Period   PeriodKey
}

// RealRef refers to a persisted entry
func RealRef(id string) EntryRef {
	return EntryRef{Kind: RefReal, ID: id}
}

// RecurrenceRef refers to the i-th projected occurrence of an anchor entry
func RecurrenceRef(anchorID string, index int, period PeriodKey) EntryRef {
	return EntryRef{Kind: RefRecurrence, SourceID: anchorID, Index: index, Period: period}
}

// ContractRef refers to a projected contract month of a client
func ContractRef(clientID string, period PeriodKey) EntryRef {
	return EntryRef{Kind: RefContract, SourceID: clientID, Period: period}
}

// Virtual reports whether the ref has no backing record
func (r EntryRef) Virtual() bool {
	return r.Kind != RefReal
}

// String renders the ref as the id exposed to callers
func (r EntryRef) String() string {
	switch r.Kind {
	case RefRecurrence:
		return r.SourceID + recurrenceInfix + strconv.Itoa(r.Index)
	case RefContract:
		return contractPrefix + string(r.Period) + "-" + r.SourceID
	default:
		return r.ID
	}
}

// ParseEntryRef decodes an id produced by EntryRef.String.
// Anything that is not a projection id is treated as a store id.
func ParseEntryRef(s string) (EntryRef, error) {
	if s == "" {
		return EntryRef{}, fmt.Errorf("empty entry id")
	}

	if rest, ok := strings.CutPrefix(s, contractPrefix); ok {
		// contract-YYYY-MM-<clientID>
		if len(rest) < len("2006-01-")+1 || rest[7] != '-' {
			return EntryRef{}, fmt.Errorf("malformed contract id %q", s)
		}
		period, err := ParsePeriodKey(rest[:7])
		if err != nil {
			return EntryRef{}, fmt.Errorf("malformed contract id %q: %w", s, err)
		}
		return ContractRef(rest[8:], period), nil
	}

	if i := strings.LastIndex(s, recurrenceInfix); i > 0 {
		n, err := strconv.Atoi(s[i+len(recurrenceInfix):])
		if err != nil || n < 1 {
			return EntryRef{}, fmt.Errorf("malformed recurrence id %q", s)
		}
		return RecurrenceRef(s[:i], n, ""), nil
	}

	return RealRef(s), nil
}
