package grid

import (
	"testing"
	"time"

	"ratedesk/internal/domain/day"
)

type selectorFixture struct {
	sel      *SelectionStore
	ds       *DragSelector
	occupied OccupancyIndex
	data     *Data
	today    day.Day
}

func newSelectorFixture(units ...UnitID) *selectorFixture {
	data := NewData()
	for _, u := range units {
		data.Units = append(data.Units, Unit{ID: u})
		data.Links[u] = []PlanID{7}
	}
	f := &selectorFixture{
		sel:      NewSelectionStore(),
		data:     data,
		occupied: OccupancyIndex{},
		today:    day.MustParse("2025-06-01"),
	}
	elig := Eligibility{Today: f.today, Occupied: f.occupied, Data: data}
	window := Window{From: day.MustParse("2025-06-01"), To: day.MustParse("2025-06-10")}
	f.ds = NewDragSelector(f.sel,
		func(k CellKey) bool { return elig.Eligible(k) },
		func() []UnitID { return units },
		func() Window { return window },
	)
	return f
}

func TestClickTogglesSingleCellBelowThreshold(t *testing.T) {
	f := newSelectorFixture(1, 2)
	cell := cellAt(1, "2025-06-03")

	f.ds.Press(cell, Point{X: 10, Y: 10}, false)
	// Wiggle under the 5px threshold.
	f.ds.Move(Point{X: 12, Y: 11}, cellAt(2, "2025-06-05"), true)
	f.ds.Move(Point{X: 9, Y: 13}, cellAt(2, "2025-06-07"), true)
	f.ds.Release(ReleaseTarget{Cell: &cell}, false, time.Now())

	if f.sel.Count() != 1 || !f.sel.Selected(cell) {
		t.Errorf("sub-threshold release must toggle only the release cell, have %v", f.sel.Cells())
	}
}

func TestDragSelectsRectangularSpanAcrossUnits(t *testing.T) {
	f := newSelectorFixture(1, 2)
	origin := cellAt(1, "2025-06-05")
	end := cellAt(2, "2025-06-03")

	f.ds.Press(origin, Point{}, false)
	f.ds.Move(Point{X: 40, Y: 0}, end, true)
	f.ds.Release(ReleaseTarget{Cell: &end}, false, time.Now())

	// Order-independent date span 06-03..06-05 for both units.
	for _, u := range []UnitID{1, 2} {
		for _, d := range []string{"2025-06-03", "2025-06-04", "2025-06-05"} {
			if !f.sel.Selected(cellAt(u, d)) {
				t.Errorf("cell %d/%s missing from drag selection", u, d)
			}
		}
	}
	if f.sel.Count() != 6 {
		t.Errorf("expected 6 cells, have %d", f.sel.Count())
	}
}

func TestDragReplaceModifierReplacesSelection(t *testing.T) {
	f := newSelectorFixture(1)
	f.sel.Add(cellAt(1, "2025-06-09"))

	origin := cellAt(1, "2025-06-02")
	f.ds.Press(origin, Point{}, false)
	f.ds.Move(Point{X: 30, Y: 0}, cellAt(1, "2025-06-03"), true)
	f.ds.Release(ReleaseTarget{}, true, time.Now())

	if f.sel.Selected(cellAt(1, "2025-06-09")) {
		t.Error("replace release must drop the prior selection")
	}
	if !f.sel.Selected(cellAt(1, "2025-06-02")) || !f.sel.Selected(cellAt(1, "2025-06-03")) {
		t.Error("replace release must keep the dragged span")
	}
}

func TestDragUnionKeepsExistingSelection(t *testing.T) {
	f := newSelectorFixture(1)
	f.sel.Add(cellAt(1, "2025-06-09"))

	f.ds.Press(cellAt(1, "2025-06-02"), Point{}, false)
	f.ds.Move(Point{X: 30, Y: 0}, cellAt(1, "2025-06-02"), true)
	f.ds.Release(ReleaseTarget{}, false, time.Now())

	if !f.sel.Selected(cellAt(1, "2025-06-09")) {
		t.Error("plain drag release must union into the existing selection")
	}
}

func TestPressOnIneligibleCellDoesNotArm(t *testing.T) {
	f := newSelectorFixture(1)
	past := cellAt(1, "2025-05-20")
	f.ds.Press(past, Point{}, false)
	f.ds.Release(ReleaseTarget{Cell: &past}, false, time.Now())
	if f.sel.Count() != 0 {
		t.Error("past dates must never enter the selection")
	}
}

func TestSelectionNeverContainsOccupiedDates(t *testing.T) {
	f := newSelectorFixture(1)
	f.occupied[1] = map[day.Day]struct{}{day.MustParse("2025-06-04"): {}}

	f.ds.Press(cellAt(1, "2025-06-03"), Point{}, false)
	f.ds.Move(Point{X: 30, Y: 0}, cellAt(1, "2025-06-05"), true)
	f.ds.Release(ReleaseTarget{}, false, time.Now())

	if f.sel.Selected(cellAt(1, "2025-06-04")) {
		t.Error("booking-occupied date leaked into the selection")
	}
	if !f.sel.Selected(cellAt(1, "2025-06-03")) || !f.sel.Selected(cellAt(1, "2025-06-05")) {
		t.Error("free neighbours should still be selected")
	}
}

func TestColumnToggleSelectsRemainingThenDeselects(t *testing.T) {
	f := newSelectorFixture(1, 2, 3)
	// Unit 3 has no linked rate plan, so it is ineligible.
	delete(f.data.Links, 3)
	d := day.MustParse("2025-06-05")
	f.sel.Add(CellKey{Unit: 1, Day: d})

	header := d
	press := cellAt(1, "2025-06-05")
	// 1 of 2 eligible selected: release on the header selects the remaining one.
	f.ds.Press(press, Point{}, false)
	f.ds.Release(ReleaseTarget{Column: &header}, false, time.Now())
	if !f.sel.Selected(CellKey{Unit: 2, Day: d}) || !f.sel.Selected(CellKey{Unit: 1, Day: d}) {
		t.Fatalf("partial column must fill up, have %v", f.sel.Cells())
	}
	if f.sel.Selected(CellKey{Unit: 3, Day: d}) {
		t.Fatal("ineligible unit must never be touched")
	}

	// Both eligible selected: next header release deselects both.
	f.ds.Press(press, Point{}, false)
	f.ds.Release(ReleaseTarget{Column: &header}, false, time.Now())
	if f.sel.Count() != 0 {
		t.Errorf("full column must clear, have %v", f.sel.Cells())
	}
}

func TestJustFinishedDragSuppressesClick(t *testing.T) {
	f := newSelectorFixture(1)
	now := time.Now()

	f.ds.Press(cellAt(1, "2025-06-02"), Point{}, false)
	f.ds.Move(Point{X: 30, Y: 0}, cellAt(1, "2025-06-03"), true)
	f.ds.Release(ReleaseTarget{}, false, now)

	if !f.ds.SuppressesClick(now.Add(50 * time.Millisecond)) {
		t.Error("click 50ms after a drag must be suppressed")
	}
	if f.ds.SuppressesClick(now.Add(250 * time.Millisecond)) {
		t.Error("click well after the suppression window must pass")
	}
}

func TestSelectVisibleRangeWithWeekdayFilter(t *testing.T) {
	f := newSelectorFixture(1)
	f.ds.SelectVisibleRange(map[time.Weekday]struct{}{time.Saturday: {}})

	// 2025-06-07 is the only Saturday in the 06-01..06-10 window.
	if !f.sel.Selected(cellAt(1, "2025-06-07")) {
		t.Error("Saturday cell missing from weekday-filtered selection")
	}
	if f.sel.Count() != 1 {
		t.Errorf("expected only Saturdays, have %v", f.sel.Cells())
	}

	f.sel.Clear()
	f.ds.SelectVisibleRange(nil)
	if f.sel.Count() != 10 {
		t.Errorf("unfiltered select-all should take the whole window, have %d", f.sel.Count())
	}
}
