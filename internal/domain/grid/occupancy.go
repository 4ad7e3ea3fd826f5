package grid

import "ratedesk/internal/domain/day"

// OccupancyIndex holds, per unit, the set of dates covered by a booking.
// It is a pure derivation of the booking list and is rebuilt whenever the
// list changes; nothing mutates it in place.
type OccupancyIndex map[UnitID]map[day.Day]struct{}

// ExpandBookings expands every booking's [arrival, departure) interval into
// the owning unit's occupied-date set. Bookings with a departure on or
// before their arrival contribute nothing.
func ExpandBookings(bookings []Booking) OccupancyIndex {
	idx := OccupancyIndex{}
	for _, b := range bookings {
		if !b.Departure.After(b.Arrival) {
			continue
		}
		days := idx[b.Unit]
		if days == nil {
			days = map[day.Day]struct{}{}
			idx[b.Unit] = days
		}
		for d := b.Arrival; d.Before(b.Departure); d = d.Next() {
			days[d] = struct{}{}
		}
	}
	return idx
}

func (idx OccupancyIndex) Occupied(k CellKey) bool {
	days, ok := idx[k.Unit]
	if !ok {
		return false
	}
	_, occupied := days[k.Day]
	return occupied
}
