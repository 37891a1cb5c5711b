package temporal

import (
	"testing"

	nerr "naftah/internal/errors"
)

func TestNewDateRejectsInvalidDay(t *testing.T) {
	if _, err := NewDate(ISO, 2023, 2, 29, nerr.Position{}); err == nil {
		t.Error("expected an error constructing Feb 29 in a non-leap year")
	}
	if _, err := NewDate(ISO, 2024, 2, 29, nerr.Position{}); err != nil {
		t.Errorf("Feb 29 2024 (leap year) should be valid, got %v", err)
	}
}

func TestNewTimeRejectsOutOfRange(t *testing.T) {
	if _, err := NewTime(24, 0, 0, 0, nerr.Position{}); err == nil {
		t.Error("expected an error for hour 24")
	}
	if _, err := NewTime(23, 59, 59, 999_999_999, nerr.Position{}); err != nil {
		t.Errorf("23:59:59.999999999 should be valid, got %v", err)
	}
}

func TestPointCompareOrdersByInstant(t *testing.T) {
	a, _ := NewDate(ISO, 2024, 1, 1, nerr.Position{})
	b, _ := NewDate(ISO, 2024, 1, 2, nerr.Position{})
	if a.Compare(b) >= 0 {
		t.Error("earlier date should compare less than later date")
	}
	if b.Compare(a) <= 0 {
		t.Error("later date should compare greater than earlier date")
	}
	if a.Compare(a) != 0 {
		t.Error("a date should compare equal to itself")
	}
}

func TestPointCompareAcrossZoneOffsets(t *testing.T) {
	a, _ := NewDateTime(ISO, 2024, 1, 1, 12, 0, 0, 0, nerr.Position{})
	a.HasZone = true
	a.OffsetSec = 3 * 3600 // UTC+3

	b, _ := NewDateTime(ISO, 2024, 1, 1, 10, 0, 0, 0, nerr.Position{})
	b.HasZone = true
	b.OffsetSec = 0 // UTC

	// a is 12:00 at UTC+3 = 09:00 UTC; b is 10:00 UTC. So a is earlier.
	if a.Compare(b) >= 0 {
		t.Error("a (09:00 UTC) should be earlier than b (10:00 UTC) once zone offsets are folded in")
	}
}

func TestAddDurationCarriesAcrossMidnight(t *testing.T) {
	p, _ := NewDateTime(ISO, 2024, 1, 1, 23, 30, 0, 0, nerr.Position{})
	next := p.AddDuration(Duration{Seconds: 3600})
	if next.Day != 2 || next.Hour != 0 || next.Minute != 30 {
		t.Errorf("23:30 + 1h should roll to day 2, 00:30, got day=%d %02d:%02d", next.Day, next.Hour, next.Minute)
	}
}

func TestAddPeriodClampsShortMonth(t *testing.T) {
	// January 31st + 1 month should clamp to the last day of February,
	// not overflow into March.
	p, _ := NewDate(ISO, 2023, 1, 31, nerr.Position{})
	next := p.AddPeriod(Period{Months: 1})
	if next.Month != 2 || next.Day != 28 {
		t.Errorf("Jan 31 + 1 month should clamp to Feb 28 (2023 is not a leap year), got %d-%02d-%02d", next.Year, next.Month, next.Day)
	}
}
