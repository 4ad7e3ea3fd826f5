package grid

import (
	"math"
	"time"

	"ratedesk/internal/domain/day"
)

// dragThresholdPx is the Euclidean pointer travel past which an armed press
// becomes a drag instead of a click.
const dragThresholdPx = 5.0

// clickSuppression is how long after a finished drag a stray click event
// from the pointer layer is ignored.
const clickSuppression = 100 * time.Millisecond

type Point struct {
	X float64
	Y float64
}

func (p Point) DistanceTo(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

type dragState int

const (
	stateIdle dragState = iota
	stateArmed
	stateDragging
)

// ReleaseTarget is where a pointer release resolved to: a concrete unit
// cell, or a date-column header when no unit row is under the pointer.
type ReleaseTarget struct {
	Cell   *CellKey
	Column *day.Day
}

// DragSelector turns press/move/release sequences into SelectionStore
// mutations. It holds no knowledge of layout; callers resolve pointer
// positions to cells and headers before feeding events in.
type DragSelector struct {
	Selection *SelectionStore
	Eligible  func(CellKey) bool
	Units     func() []UnitID
	Window    func() Window

	state       dragState
	origin      CellKey
	originPos   Point
	current     CellKey
	lastDragEnd time.Time
}

func NewDragSelector(sel *SelectionStore, eligible func(CellKey) bool, units func() []UnitID, window func() Window) *DragSelector {
	return &DragSelector{Selection: sel, Eligible: eligible, Units: units, Window: window}
}

// Press arms a drag session on an eligible cell. A held modifier key leaves
// the selector idle so modified clicks can be handled elsewhere.
func (ds *DragSelector) Press(cell CellKey, pos Point, modifierHeld bool) {
	if modifierHeld || !ds.Eligible(cell) {
		ds.state = stateIdle
		return
	}
	ds.state = stateArmed
	ds.origin = cell
	ds.originPos = pos
	ds.current = cell
}

// Move advances an armed session to dragging once the pointer travels past
// the threshold, and tracks the cell under the pointer while dragging.
// haveCell is false when the pointer is over no cell; the current cell then
// stays where it was.
func (ds *DragSelector) Move(pos Point, under CellKey, haveCell bool) {
	switch ds.state {
	case stateArmed:
		if pos.DistanceTo(ds.originPos) > dragThresholdPx {
			ds.state = stateDragging
			if haveCell {
				ds.current = under
			}
		}
	case stateDragging:
		if haveCell && under != ds.current {
			ds.current = under
		}
	}
}

// Release finishes the session. Below-threshold releases carry click
// semantics: toggle the released cell, or toggle a whole column when the
// release resolved to a header. Drag releases select the rectangular date
// span between origin and current across all eligible units, replacing the
// selection when the replace modifier was held and unioning otherwise.
func (ds *DragSelector) Release(target ReleaseTarget, replaceHeld bool, now time.Time) {
	state := ds.state
	ds.state = stateIdle
	switch state {
	case stateArmed:
		switch {
		case target.Cell != nil:
			if ds.Eligible(*target.Cell) {
				ds.Selection.Toggle(*target.Cell)
			}
		case target.Column != nil:
			ds.toggleColumn(*target.Column)
		}
	case stateDragging:
		ds.lastDragEnd = now
		span := ds.spanCells(ds.origin.Day, ds.current.Day)
		if replaceHeld {
			ds.Selection.SetAll(span)
			return
		}
		ds.Selection.Union(span)
	}
}

// SuppressesClick reports whether a click event arriving now is the echo of
// a drag that just finished and must be dropped.
func (ds *DragSelector) SuppressesClick(now time.Time) bool {
	return !ds.lastDragEnd.IsZero() && now.Sub(ds.lastDragEnd) < clickSuppression
}

// Dragging is true while a drag session is past the movement threshold.
func (ds *DragSelector) Dragging() bool { return ds.state == stateDragging }

// toggleColumn selects every eligible cell in the date column unless all of
// them are already selected, in which case it deselects them. Ineligible
// cells are never touched either way.
func (ds *DragSelector) toggleColumn(d day.Day) {
	var eligible []CellKey
	for _, u := range ds.Units() {
		cell := CellKey{Unit: u, Day: d}
		if ds.Eligible(cell) {
			eligible = append(eligible, cell)
		}
	}
	if len(eligible) == 0 {
		return
	}
	allSelected := true
	for _, cell := range eligible {
		if !ds.Selection.Selected(cell) {
			allSelected = false
			break
		}
	}
	for _, cell := range eligible {
		if allSelected {
			ds.Selection.Remove(cell)
		} else {
			ds.Selection.Add(cell)
		}
	}
}

// spanCells expands the order-independent date span between two cells to
// every eligible cell across the visible units.
func (ds *DragSelector) spanCells(a, b day.Day) []CellKey {
	from, to := a, b
	if to.Before(from) {
		from, to = to, from
	}
	var out []CellKey
	for _, u := range ds.Units() {
		for _, d := range day.Range(from, to) {
			cell := CellKey{Unit: u, Day: d}
			if ds.Eligible(cell) {
				out = append(out, cell)
			}
		}
	}
	return out
}

// SelectVisibleRange selects every eligible cell across the visible units
// and the full date window in one operation. A non-empty weekday set
// restricts the dates to those weekdays.
func (ds *DragSelector) SelectVisibleRange(weekdays map[time.Weekday]struct{}) {
	w := ds.Window()
	var cells []CellKey
	for _, u := range ds.Units() {
		for _, d := range w.Days() {
			if len(weekdays) > 0 {
				if _, ok := weekdays[d.Weekday()]; !ok {
					continue
				}
			}
			cell := CellKey{Unit: u, Day: d}
			if ds.Eligible(cell) {
				cells = append(cells, cell)
			}
		}
	}
	ds.Selection.Union(cells)
}
