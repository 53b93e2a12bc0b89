package models

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar date format used across the ledger
const DateLayout = "2006-01-02"

// ParseDate parses a canonical YYYY-MM-DD date at UTC midnight
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t in the canonical date format
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// PeriodKey is a calendar year-month, formatted YYYY-MM
type PeriodKey string

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) PeriodKey {
	return PeriodKey(fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())))
}

// PeriodOfDate returns the period of a canonical date string
func PeriodOfDate(s string) (PeriodKey, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return PeriodOf(t), nil
}

// ParsePeriodKey validates a YYYY-MM string
func ParsePeriodKey(s string) (PeriodKey, error) {
	if _, err := time.Parse("2006-01", s); err != nil {
		return "", fmt.Errorf("invalid period %q: %w", s, err)
	}
	return PeriodKey(s), nil
}

// Bounds returns the first and last calendar dates of the period
func (p PeriodKey) Bounds() (first, last string, err error) {
	t, err := time.Parse("2006-01", string(p))
	if err != nil {
		return "", "", fmt.Errorf("invalid period %q: %w", p, err)
	}
	return FormatDate(t), FormatDate(t.AddDate(0, 1, -1)), nil
}
