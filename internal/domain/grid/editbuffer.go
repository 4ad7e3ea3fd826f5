package grid

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrIneligibleCell = errors.New("grid: cell is not editable")
	ErrInvalidPrice   = errors.New("grid: price must be a positive amount")
	ErrInvalidMinStay = errors.New("grid: minimum stay must not be negative")
)

// EditRecord is the pending override for one (unit, date) under the
// currently selected rate plan. Each field carries its own dirty flag;
// only dirty fields make it into the bulk diff.
type EditRecord struct {
	Price      decimal.Decimal
	PricePlan  PlanID
	PriceDirty bool

	MinStay      int
	MinStaySet   bool
	MinStayDirty bool

	Arrival      bool
	ArrivalSet   bool
	ArrivalDirty bool
}

// EditBuffer accumulates local overrides until a save succeeds. It rejects
// writes to ineligible cells and implements the single-cell versus
// whole-selection apply policy.
type EditBuffer struct {
	data     *Data
	eligible func(CellKey) bool
	records  map[CellKey]*EditRecord
}

func NewEditBuffer(data *Data, eligible func(CellKey) bool) *EditBuffer {
	return &EditBuffer{
		data:     data,
		eligible: eligible,
		records:  map[CellKey]*EditRecord{},
	}
}

// targets resolves the apply policy: a plain commit touches only the edited
// cell, a selection-modified commit touches the entire current selection.
func (b *EditBuffer) targets(cell CellKey, selection []CellKey, applyToSelection bool) []CellKey {
	if applyToSelection && len(selection) > 0 {
		return selection
	}
	return []CellKey{cell}
}

func (b *EditBuffer) record(cell CellKey) *EditRecord {
	rec, ok := b.records[cell]
	if !ok {
		rec = &EditRecord{}
		b.records[cell] = rec
	}
	return rec
}

// ApplyPrice writes a price override to the target cells. A priced day must
// have an explicit minimum stay, so a cell whose effective minimum stay is
// still absent or zero gets it forced to 1 and marked modified.
func (b *EditBuffer) ApplyPrice(value decimal.Decimal, plan PlanID, cell CellKey, selection []CellKey, applyToSelection bool) error {
	if !value.IsPositive() {
		return ErrInvalidPrice
	}
	wrote := false
	for _, target := range b.targets(cell, selection, applyToSelection) {
		if !b.eligible(target) {
			continue
		}
		rec := b.record(target)
		rec.Price = value
		rec.PricePlan = plan
		rec.PriceDirty = true
		if stay, ok := b.EffectiveMinStay(target, plan); !ok || stay == 0 {
			rec.MinStay = 1
			rec.MinStaySet = true
			rec.MinStayDirty = true
		}
		wrote = true
	}
	if !wrote {
		return ErrIneligibleCell
	}
	return nil
}

func (b *EditBuffer) ApplyMinStay(value int, cell CellKey, selection []CellKey, applyToSelection bool) error {
	if value < 0 {
		return ErrInvalidMinStay
	}
	wrote := false
	for _, target := range b.targets(cell, selection, applyToSelection) {
		if !b.eligible(target) {
			continue
		}
		rec := b.record(target)
		rec.MinStay = value
		rec.MinStaySet = true
		rec.MinStayDirty = true
		wrote = true
	}
	if !wrote {
		return ErrIneligibleCell
	}
	return nil
}

func (b *EditBuffer) ApplyArrivalAllowed(value bool, cell CellKey, selection []CellKey, applyToSelection bool) error {
	wrote := false
	for _, target := range b.targets(cell, selection, applyToSelection) {
		if !b.eligible(target) {
			continue
		}
		rec := b.record(target)
		rec.Arrival = value
		rec.ArrivalSet = true
		rec.ArrivalDirty = true
		wrote = true
	}
	if !wrote {
		return ErrIneligibleCell
	}
	return nil
}

// Record returns the pending override for a cell, if any.
func (b *EditBuffer) Record(cell CellKey) (EditRecord, bool) {
	rec, ok := b.records[cell]
	if !ok {
		return EditRecord{}, false
	}
	return *rec, true
}

// EffectivePrice is the override when one exists for the plan, else the
// authoritative value.
func (b *EditBuffer) EffectivePrice(k FieldKey) (decimal.Decimal, bool) {
	if rec, ok := b.records[k.Cell()]; ok && rec.PriceDirty && rec.PricePlan == k.Plan {
		return rec.Price, true
	}
	return b.data.PriceAt(k)
}

func (b *EditBuffer) EffectiveMinStay(cell CellKey, plan PlanID) (int, bool) {
	if rec, ok := b.records[cell]; ok && rec.MinStaySet {
		return rec.MinStay, true
	}
	return b.data.MinStayAt(FieldKey{Unit: cell.Unit, Day: cell.Day, Plan: plan})
}

func (b *EditBuffer) EffectiveArrivalAllowed(cell CellKey, plan PlanID) bool {
	if rec, ok := b.records[cell]; ok && rec.ArrivalSet {
		return rec.Arrival
	}
	return b.data.ArrivalAllowedAt(FieldKey{Unit: cell.Unit, Day: cell.Day, Plan: plan})
}

// DirtyCells lists every cell holding at least one dirty field.
func (b *EditBuffer) DirtyCells() []CellKey {
	var out []CellKey
	for cell, rec := range b.records {
		if rec.PriceDirty || rec.MinStayDirty || rec.ArrivalDirty {
			out = append(out, cell)
		}
	}
	return out
}

// DirtyKeys encodes the dirty entries in their wire shapes: price edits as
// "unit-date-plan", minimum-stay and arrival edits as "unit-date".
func (b *EditBuffer) DirtyKeys() []string {
	var out []string
	for cell, rec := range b.records {
		if rec.PriceDirty {
			out = append(out, FieldKey{Unit: cell.Unit, Day: cell.Day, Plan: rec.PricePlan}.String())
		}
		if rec.MinStayDirty || rec.ArrivalDirty {
			out = append(out, cell.String())
		}
	}
	return out
}

// Commit folds the pending values for the given cells into the
// authoritative data and clears their dirty flags. Called only after the
// save request covering those cells succeeded; values remain readable, now
// authoritative.
func (b *EditBuffer) Commit(cells []CellKey, plan PlanID) {
	for _, cell := range cells {
		rec, ok := b.records[cell]
		if !ok {
			continue
		}
		if rec.PriceDirty {
			b.data.Prices[FieldKey{Unit: cell.Unit, Day: cell.Day, Plan: rec.PricePlan}] = rec.Price
			rec.PriceDirty = false
		}
		if rec.MinStayDirty {
			b.data.MinStay[FieldKey{Unit: cell.Unit, Day: cell.Day, Plan: plan}] = rec.MinStay
			rec.MinStayDirty = false
		}
		if rec.ArrivalDirty {
			b.data.Arrival[FieldKey{Unit: cell.Unit, Day: cell.Day, Plan: plan}] = rec.Arrival
			rec.ArrivalDirty = false
		}
	}
}

// Reset drops every pending record.
func (b *EditBuffer) Reset() {
	b.records = map[CellKey]*EditRecord{}
}

// Rebind points the buffer at freshly loaded authoritative data while
// keeping the staged records, so a background refresh does not throw away
// unsaved work.
func (b *EditBuffer) Rebind(data *Data, eligible func(CellKey) bool) {
	b.data = data
	b.eligible = eligible
}
