package grid

import "ratedesk/internal/domain/day"

// Eligibility is the single rule deciding whether a cell may take part in
// any selection or edit: past dates, booking-occupied dates and units with
// no linked rate plan are out.
type Eligibility struct {
	Today    day.Day
	Occupied OccupancyIndex
	Data     *Data
}

func (e Eligibility) Eligible(k CellKey) bool {
	if k.Day.Before(e.Today) {
		return false
	}
	if e.Occupied.Occupied(k) {
		return false
	}
	if e.Data == nil || !e.Data.HasLinkedPlan(k.Unit) {
		return false
	}
	return true
}
