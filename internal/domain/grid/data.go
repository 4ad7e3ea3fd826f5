package grid

import (
	"github.com/shopspring/decimal"

	"ratedesk/internal/domain/day"
)

// Window is the visible date range [From, To], both inclusive.
type Window struct {
	From day.Day
	To   day.Day
}

func (w Window) Contains(d day.Day) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

func (w Window) Days() []day.Day {
	return day.Range(w.From, w.To)
}

type Unit struct {
	ID   UnitID
	Name string
}

type RatePlan struct {
	ID   PlanID
	Name string
}

// Booking occupies [Arrival, Departure) for one unit.
type Booking struct {
	ID        int64
	Unit      UnitID
	Arrival   day.Day
	Departure day.Day
	GuestName string
}

// Data is the authoritative per-group view loaded from the inventory
// service, normalized into flat composite-key lookups.
type Data struct {
	Units    []Unit
	Window   Window
	Stock    map[CellKey]int
	Prices   map[FieldKey]decimal.Decimal
	MinStay  map[FieldKey]int
	Arrival  map[FieldKey]bool
	Bookings []Booking
	Plans    []RatePlan
	Links    map[UnitID][]PlanID
}

func NewData() *Data {
	return &Data{
		Stock:   map[CellKey]int{},
		Prices:  map[FieldKey]decimal.Decimal{},
		MinStay: map[FieldKey]int{},
		Arrival: map[FieldKey]bool{},
		Links:   map[UnitID][]PlanID{},
	}
}

// StockAt defaults to 0 when no figure was loaded for the cell.
func (d *Data) StockAt(k CellKey) int {
	return d.Stock[k]
}

func (d *Data) PriceAt(k FieldKey) (decimal.Decimal, bool) {
	p, ok := d.Prices[k]
	return p, ok
}

func (d *Data) MinStayAt(k FieldKey) (int, bool) {
	m, ok := d.MinStay[k]
	return m, ok
}

// ArrivalAllowedAt defaults to true when the plan carries no value for the day.
func (d *Data) ArrivalAllowedAt(k FieldKey) bool {
	if v, ok := d.Arrival[k]; ok {
		return v
	}
	return true
}

func (d *Data) LinkedPlans(u UnitID) []PlanID {
	return d.Links[u]
}

func (d *Data) HasLinkedPlan(u UnitID) bool {
	return len(d.Links[u]) > 0
}

// FirstPlanWithPrice finds the first linked plan carrying any price on the
// cell's date, in link order. Used as the last rate-plan fallback when
// encoding a diff.
func (d *Data) FirstPlanWithPrice(k CellKey) (PlanID, bool) {
	for _, plan := range d.Links[k.Unit] {
		if _, ok := d.Prices[FieldKey{Unit: k.Unit, Day: k.Day, Plan: plan}]; ok {
			return plan, true
		}
	}
	return 0, false
}

// MergeValues folds freshly loaded per-day values into the authoritative
// maps, overwriting on key collision. Merging is explicit so the
// companion-field preservation rules stay checkable.
func (d *Data) MergeValues(stock map[CellKey]int, prices map[FieldKey]decimal.Decimal, minStay map[FieldKey]int, arrival map[FieldKey]bool) {
	for k, v := range stock {
		d.Stock[k] = v
	}
	for k, v := range prices {
		d.Prices[k] = v
	}
	for k, v := range minStay {
		d.MinStay[k] = v
	}
	for k, v := range arrival {
		d.Arrival[k] = v
	}
}
