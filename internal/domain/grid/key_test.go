package grid

import (
	"testing"

	"ratedesk/internal/domain/day"
)

func TestCellKeyRoundTrip(t *testing.T) {
	cases := []CellKey{
		{Unit: 1, Day: day.MustParse("2025-06-01")},
		{Unit: 9481, Day: day.MustParse("1999-12-31")},
		{Unit: 0, Day: day.MustParse("2026-02-28")},
	}
	for _, k := range cases {
		parsed, err := ParseCellKey(k.String())
		if err != nil {
			t.Fatalf("ParseCellKey(%q): %v", k.String(), err)
		}
		if parsed != k {
			t.Errorf("round trip changed key: %v -> %v", k, parsed)
		}
	}
}

func TestFieldKeyRoundTrip(t *testing.T) {
	cases := []FieldKey{
		{Unit: 1, Day: day.MustParse("2025-06-01"), Plan: 7},
		{Unit: 312, Day: day.MustParse("2025-01-05"), Plan: 1200},
	}
	for _, k := range cases {
		parsed, err := ParseFieldKey(k.String())
		if err != nil {
			t.Fatalf("ParseFieldKey(%q): %v", k.String(), err)
		}
		if parsed != k {
			t.Errorf("round trip changed key: %v -> %v", k, parsed)
		}
	}
}

func TestParseCellKeyRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "12", "12-2025-06", "x-2025-06-01", "12-2025-13-41", "12-2025-06-01-3-9"} {
		if _, err := ParseCellKey(raw); err == nil {
			t.Errorf("ParseCellKey(%q) accepted malformed input", raw)
		}
	}
}

func TestParseFieldKeyRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "12-2025-06-01", "12-2025-06-01-x", "12-2025-06-01-3-9"} {
		if _, err := ParseFieldKey(raw); err == nil {
			t.Errorf("ParseFieldKey(%q) accepted malformed input", raw)
		}
	}
}
