package day

import (
	"testing"
	"time"
)

func TestParseFormatsBack(t *testing.T) {
	d, err := Parse("2025-06-01")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.String() != "2025-06-01" {
		t.Errorf("String() = %q", d.String())
	}
	if d.Weekday() != time.Sunday {
		t.Errorf("2025-06-01 should be a Sunday, got %v", d.Weekday())
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "2025-6-1", "01-06-2025", "2025-06-32", "yesterday"} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) should fail", raw)
		}
	}
}

func TestRangeInclusive(t *testing.T) {
	got := Range(MustParse("2025-06-01"), MustParse("2025-06-03"))
	if len(got) != 3 || !got[0].Equal(MustParse("2025-06-01")) || !got[2].Equal(MustParse("2025-06-03")) {
		t.Errorf("Range = %v", got)
	}
	if Range(MustParse("2025-06-03"), MustParse("2025-06-01")) != nil {
		t.Error("inverted range should be empty")
	}
}

func TestDaysBetween(t *testing.T) {
	a, b := MustParse("2025-06-01"), MustParse("2025-06-04")
	if DaysBetween(a, b) != 3 || DaysBetween(b, a) != -3 {
		t.Errorf("DaysBetween = %d / %d", DaysBetween(a, b), DaysBetween(b, a))
	}
}

func TestTodayTruncatesToUTCDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 45, 0, 0, time.UTC)
	if !Today(now).Equal(MustParse("2025-06-01")) {
		t.Errorf("Today = %v", Today(now))
	}
}

func TestTextMarshalling(t *testing.T) {
	d := MustParse("2025-06-01")
	raw, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var back Day
	if err := back.UnmarshalText(raw); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("text round trip changed the day: %v", back)
	}
}
