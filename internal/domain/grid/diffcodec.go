package grid

import (
	"sort"

	"github.com/shopspring/decimal"

	"ratedesk/internal/domain/day"
)

// DateUpdate is one day's worth of staged changes for a unit. Price travels
// only when it was edited; minimum stay and arrival-allowed always travel
// with their current values so the remote full-record replace never resets
// a field that was not touched locally.
type DateUpdate struct {
	Day     day.Day
	Plan    PlanID
	Price   *decimal.Decimal
	MinStay int
	Arrival bool
}

type UnitUpdate struct {
	Unit  UnitID
	Dates []DateUpdate
}

// BulkUpdate is the minimal structured payload describing all staged edits.
type BulkUpdate struct {
	Units []UnitUpdate
}

func (u BulkUpdate) Empty() bool { return len(u.Units) == 0 }

// CellCount is the number of (unit, date) records in the payload.
func (u BulkUpdate) CellCount() int {
	n := 0
	for _, unit := range u.Units {
		n += len(unit.Dates)
	}
	return n
}

// EncodeBulkUpdate turns the buffer's dirty keys plus the authoritative
// data into the per-unit, per-date payload. Dirty keys arrive in their wire
// shapes ("unit-date-plan" for price edits, "unit-date" for the rest) and
// are parsed back through the key codec, keeping construction and parsing
// exact inverses. When a date carries no price edit the rate plan falls
// back to the selected plan, or failing that the first linked plan with any
// existing price on that date.
func EncodeBulkUpdate(dirtyKeys []string, buffer *EditBuffer, data *Data, selectedPlan PlanID) (BulkUpdate, error) {
	type pending struct {
		pricePlan PlanID
		hasPrice  bool
	}
	staged := map[CellKey]*pending{}
	entry := func(cell CellKey) *pending {
		p, ok := staged[cell]
		if !ok {
			p = &pending{}
			staged[cell] = p
		}
		return p
	}
	for _, raw := range dirtyKeys {
		if field, err := ParseFieldKey(raw); err == nil {
			p := entry(field.Cell())
			p.pricePlan = field.Plan
			p.hasPrice = true
			continue
		}
		cell, err := ParseCellKey(raw)
		if err != nil {
			return BulkUpdate{}, err
		}
		entry(cell)
	}

	byUnit := map[UnitID][]DateUpdate{}
	for cell, p := range staged {
		plan := p.pricePlan
		if !p.hasPrice {
			plan = selectedPlan
			if plan == 0 {
				if fallback, ok := data.FirstPlanWithPrice(cell); ok {
					plan = fallback
				}
			}
		}
		update := DateUpdate{
			Day:     cell.Day,
			Plan:    plan,
			Arrival: buffer.EffectiveArrivalAllowed(cell, plan),
		}
		if stay, ok := buffer.EffectiveMinStay(cell, plan); ok {
			update.MinStay = stay
		}
		if p.hasPrice {
			if price, ok := buffer.EffectivePrice(FieldKey{Unit: cell.Unit, Day: cell.Day, Plan: plan}); ok {
				update.Price = &price
			}
		}
		byUnit[cell.Unit] = append(byUnit[cell.Unit], update)
	}

	out := BulkUpdate{}
	for unit, dates := range byUnit {
		sort.Slice(dates, func(i, j int) bool { return dates[i].Day.Before(dates[j].Day) })
		out.Units = append(out.Units, UnitUpdate{Unit: unit, Dates: dates})
	}
	sort.Slice(out.Units, func(i, j int) bool { return out.Units[i].Unit < out.Units[j].Unit })
	return out, nil
}
