package models

// RecurrenceKind is how often an anchor entry repeats
type RecurrenceKind string

const (
	RecurrenceNone      RecurrenceKind = "none"
	RecurrenceMonthly   RecurrenceKind = "monthly"
	RecurrenceBimonthly RecurrenceKind = "bimonthly"
	RecurrenceQuarterly RecurrenceKind = "quarterly"
	RecurrenceBiannual  RecurrenceKind = "biannual"
	RecurrenceAnnual    RecurrenceKind = "annual"
)

// Recurring reports whether the kind can seed future occurrences
func (k RecurrenceKind) Recurring() bool {
	return k != "" && k != RecurrenceNone
}
