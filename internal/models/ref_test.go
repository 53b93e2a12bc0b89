package models

import "testing"

func TestParseEntryRef(t *testing.T) {
	tests := []struct {
		id      string
		want    EntryRef
		wantErr bool
	}{
		{"42", RealRef("42"), false},
		{"5f0c6a1e-8d7b-4a57-9a3c-2f1e0d9c8b7a", RealRef("5f0c6a1e-8d7b-4a57-9a3c-2f1e0d9c8b7a"), false},
		{"t1-recurrence-3", RecurrenceRef("t1", 3, ""), false},
		{"a-recurrence-b-recurrence-12", RecurrenceRef("a-recurrence-b", 12, ""), false},
		{"contract-2024-02-c1", ContractRef("c1", "2024-02"), false},
		{"contract-2024-02-5f0c6a1e-8d7b", ContractRef("5f0c6a1e-8d7b", "2024-02"), false},
		{"t1-recurrence-0", EntryRef{}, true},
		{"t1-recurrence-x", EntryRef{}, true},
		{"contract-2024-13-c1", EntryRef{}, true},
		{"contract-2024-02", EntryRef{}, true},
		{"", EntryRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := ParseEntryRef(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEntryRef(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseEntryRef(%q) = %+v, want %+v", tt.id, got, tt.want)
			}
		})
	}
}

func TestEntryRefString(t *testing.T) {
	refs := []EntryRef{
		RealRef("17"),
		RecurrenceRef("t1", 24, "2026-01"),
		ContractRef("c1", "2024-02"),
	}
	want := []string{"17", "t1-recurrence-24", "contract-2024-02-c1"}
	for i, ref := range refs {
		if got := ref.String(); got != want[i] {
			t.Errorf("String() = %s, want %s", got, want[i])
		}
	}
}

func TestPeriodOfDate(t *testing.T) {
	p, err := PeriodOfDate("2024-02-29")
	if err != nil || p != "2024-02" {
		t.Fatalf("PeriodOfDate = %s, %v", p, err)
	}
	if _, err := PeriodOfDate("29/02/2024"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestPeriodKeyBounds(t *testing.T) {
	first, last, err := PeriodKey("2024-02").Bounds()
	if err != nil || first != "2024-02-01" || last != "2024-02-29" {
		t.Fatalf("Bounds = %s, %s, %v", first, last, err)
	}
	if _, _, err := PeriodKey("2024-13").Bounds(); err == nil {
		t.Fatal("expected error for invalid period")
	}
}
