package grid

import "ratedesk/internal/domain/day"

// AvailabilityRange is a maximal run of contiguous dates with stock >= 1
// for one unit, bounded by zero-stock dates or the window edges. The day
// before the window is treated as zero stock, so a run never claims to
// extend past the loaded data.
type AvailabilityRange struct {
	Unit   UnitID
	From   day.Day
	To     day.Day
	Length int
}

func (r AvailabilityRange) Contains(d day.Day) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// ComputeRanges scans the window day by day per unit. A range opens on a
// stock >= 1 date whose predecessor has stock 0 (or is outside the window)
// and closes on the first zero-stock date or the window end. Output ranges
// are ordered by start date and pairwise disjoint.
func ComputeRanges(data *Data, w Window) map[UnitID][]AvailabilityRange {
	days := w.Days()
	out := make(map[UnitID][]AvailabilityRange, len(data.Units))
	for _, unit := range data.Units {
		var ranges []AvailabilityRange
		open := false
		var start day.Day
		for _, d := range days {
			inStock := data.StockAt(CellKey{Unit: unit.ID, Day: d}) >= 1
			switch {
			case inStock && !open:
				open = true
				start = d
			case !inStock && open:
				open = false
				ranges = append(ranges, newRange(unit.ID, start, d.Prev()))
			}
		}
		if open {
			ranges = append(ranges, newRange(unit.ID, start, w.To))
		}
		out[unit.ID] = ranges
	}
	return out
}

func newRange(u UnitID, from, to day.Day) AvailabilityRange {
	return AvailabilityRange{Unit: u, From: from, To: to, Length: day.DaysBetween(from, to) + 1}
}

// ComputeNonReservableDays flags dates that show stock 1 yet cannot be
// booked: either the selected plan has no price that day, or its minimum
// stay exceeds the length of the availability range containing the day.
// Dates with stock other than 1 are never flagged; they are covered by the
// general stock-based eligibility instead. A missing or non-positive
// minimum stay never blocks a date.
func ComputeNonReservableDays(data *Data, w Window, plan PlanID, ranges map[UnitID][]AvailabilityRange) map[CellKey]struct{} {
	out := map[CellKey]struct{}{}
	for _, unit := range data.Units {
		for _, d := range w.Days() {
			cell := CellKey{Unit: unit.ID, Day: d}
			if data.StockAt(cell) != 1 {
				continue
			}
			field := FieldKey{Unit: unit.ID, Day: d, Plan: plan}
			if _, priced := data.PriceAt(field); !priced {
				out[cell] = struct{}{}
				continue
			}
			minStay, ok := data.MinStayAt(field)
			if !ok || minStay <= 0 {
				continue
			}
			if run, found := containingRange(ranges[unit.ID], d); found && minStay > run.Length {
				out[cell] = struct{}{}
			}
		}
	}
	return out
}

func containingRange(ranges []AvailabilityRange, d day.Day) (AvailabilityRange, bool) {
	for _, r := range ranges {
		if r.Contains(d) {
			return r, true
		}
	}
	return AvailabilityRange{}, false
}

// ArrivalSummary reports whether arrivals are possible on a date across the
// whole group. When every unit shows zero stock the summary is forced to
// "disallowed" no matter what the per-plan values say; otherwise any
// in-stock unit whose plan value allows arrival (absent values default to
// allowed) makes the summary true. The zero-stock override is a separate
// rule from the per-plan default.
func ArrivalSummary(data *Data, d day.Day, plan PlanID) bool {
	anyStock := false
	for _, unit := range data.Units {
		if data.StockAt(CellKey{Unit: unit.ID, Day: d}) > 0 {
			anyStock = true
			break
		}
	}
	if !anyStock {
		return false
	}
	for _, unit := range data.Units {
		cell := CellKey{Unit: unit.ID, Day: d}
		if data.StockAt(cell) <= 0 {
			continue
		}
		if data.ArrivalAllowedAt(FieldKey{Unit: unit.ID, Day: d, Plan: plan}) {
			return true
		}
	}
	return false
}
