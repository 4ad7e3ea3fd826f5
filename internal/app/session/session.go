package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ratedesk/internal/domain/day"
	"ratedesk/internal/domain/grid"
)

// Observer is notified after derived values (availability ranges,
// non-reservable days, occupancy) were recomputed.
type Observer func()

// Session is the editing state for one unit group: authoritative data, the
// selection, the edit buffer and the derived analyses. Every mutation runs
// under the session lock so the engine behaves as the single-threaded event
// model it is specified as, even though HTTP handlers call in concurrently.
type Session struct {
	ID      string
	GroupID int64

	mu    sync.Mutex
	clock func() time.Time

	data         *grid.Data
	selection    *grid.SelectionStore
	buffer       *grid.EditBuffer
	selector     *grid.DragSelector
	selectedPlan grid.PlanID

	occupancy     grid.OccupancyIndex
	ranges        map[grid.UnitID][]grid.AvailabilityRange
	nonReservable map[grid.CellKey]struct{}

	observers []Observer
}

func New(groupID int64, clock func() time.Time) *Session {
	if clock == nil {
		clock = time.Now
	}
	s := &Session{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		clock:     clock,
		data:      grid.NewData(),
		selection: grid.NewSelectionStore(),
		occupancy: grid.OccupancyIndex{},
	}
	s.buffer = grid.NewEditBuffer(s.data, s.eligible)
	s.selector = grid.NewDragSelector(s.selection, s.eligible, s.visibleUnits, s.window)
	return s
}

// eligible is the uniform rule: not past, not booking-occupied, unit has a
// linked rate plan. Callers hold the session lock.
func (s *Session) eligible(k grid.CellKey) bool {
	e := grid.Eligibility{Today: day.Today(s.clock()), Occupied: s.occupancy, Data: s.data}
	return e.Eligible(k)
}

func (s *Session) visibleUnits() []grid.UnitID {
	var out []grid.UnitID
	for _, u := range s.data.Units {
		if s.selection.UnitActive(u.ID) {
			out = append(out, u.ID)
		}
	}
	return out
}

func (s *Session) window() grid.Window {
	return s.data.Window
}

// Subscribe registers an observer; it fires after every recompute.
func (s *Session) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// ReplaceData installs a freshly loaded snapshot. Staged edits survive; the
// selection is pruned against the new window and eligibility.
func (s *Session) ReplaceData(data *grid.Data) {
	s.mu.Lock()
	s.data = data
	s.buffer.Rebind(data, s.eligible)
	s.recomputeLocked()
	s.mu.Unlock()
	s.notify()
}

// recomputeLocked rebuilds the pure derived values and prunes stale
// selection keys. Must be called with the lock held.
func (s *Session) recomputeLocked() {
	s.occupancy = grid.ExpandBookings(s.data.Bookings)
	s.ranges = grid.ComputeRanges(s.data, s.data.Window)
	s.nonReservable = grid.ComputeNonReservableDays(s.data, s.data.Window, s.selectedPlan, s.ranges)
	s.selection.PruneInvalid(func(k grid.CellKey) bool {
		return s.data.Window.Contains(k.Day) && s.eligible(k)
	})
}

func (s *Session) notify() {
	for _, fn := range s.observers {
		fn()
	}
}

// SelectPlan switches the rate plan the grid is edited under and refreshes
// the plan-dependent derivations.
func (s *Session) SelectPlan(plan grid.PlanID) {
	s.mu.Lock()
	s.selectedPlan = plan
	s.recomputeLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Session) SelectedPlan() grid.PlanID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedPlan
}

// SetActiveUnits installs the display/edit unit filter and prunes the
// selection to it.
func (s *Session) SetActiveUnits(units []grid.UnitID) {
	s.mu.Lock()
	s.selection.SetActiveUnits(units)
	s.mu.Unlock()
	s.notify()
}

// Pointer events, resolved to cells by the caller.

func (s *Session) PointerPress(cell grid.CellKey, pos grid.Point, modifierHeld bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selector.Press(cell, pos, modifierHeld)
}

func (s *Session) PointerMove(pos grid.Point, under grid.CellKey, haveCell bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selector.Move(pos, under, haveCell)
}

func (s *Session) PointerRelease(target grid.ReleaseTarget, replaceHeld bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selector.Release(target, replaceHeld, s.clock())
}

// Click toggles a single cell unless it is the echo of a drag that just
// finished.
func (s *Session) Click(cell grid.CellKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selector.SuppressesClick(s.clock()) {
		return
	}
	if s.eligible(cell) {
		s.selection.Toggle(cell)
	}
}

// SelectVisibleRange is the select-everything keyboard operation; a
// non-empty weekday set restricts the dates.
func (s *Session) SelectVisibleRange(weekdays map[time.Weekday]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selector.SelectVisibleRange(weekdays)
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

func (s *Session) SelectionCells() []grid.CellKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Cells()
}

// Edits. applyToSelection routes the value to the whole current selection
// (the ctrl/cmd-modified commit); otherwise only the edited cell changes.

func (s *Session) EditPrice(value decimal.Decimal, cell grid.CellKey, applyToSelection bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.ApplyPrice(value, s.selectedPlan, cell, s.selection.Cells(), applyToSelection)
}

func (s *Session) EditMinStay(value int, cell grid.CellKey, applyToSelection bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.ApplyMinStay(value, cell, s.selection.Cells(), applyToSelection)
}

func (s *Session) EditArrivalAllowed(value bool, cell grid.CellKey, applyToSelection bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.ApplyArrivalAllowed(value, cell, s.selection.Cells(), applyToSelection)
}

func (s *Session) DirtyCells() []grid.CellKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.DirtyCells()
}

// EncodeDiff builds the bulk payload from the current dirty set.
func (s *Session) EncodeDiff() (grid.BulkUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return grid.EncodeBulkUpdate(s.buffer.DirtyKeys(), s.buffer, s.data, s.selectedPlan)
}

// CommitUnit marks one unit's staged cells as saved: values become
// authoritative and their dirty flags clear. Cells of other units keep
// their flags, which is what makes partial save failures retryable.
func (s *Session) CommitUnit(unit grid.UnitID) {
	s.mu.Lock()
	var cells []grid.CellKey
	for _, cell := range s.buffer.DirtyCells() {
		if cell.Unit == unit {
			cells = append(cells, cell)
		}
	}
	s.buffer.Commit(cells, s.selectedPlan)
	s.recomputeLocked()
	s.mu.Unlock()
	s.notify()
}

// DiscardEdits drops every staged, unsaved value (the escape/cancel path).
// The selection is untouched.
func (s *Session) DiscardEdits() {
	s.mu.Lock()
	s.buffer.Reset()
	s.mu.Unlock()
	s.notify()
}

// ResetAfterSave clears selection and edit buffer once every staged cell
// was saved.
func (s *Session) ResetAfterSave() {
	s.mu.Lock()
	s.buffer.Reset()
	s.selection.Clear()
	s.mu.Unlock()
	s.notify()
}

// Derived views.

func (s *Session) Ranges(unit grid.UnitID) []grid.AvailabilityRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ranges[unit]
}

func (s *Session) NonReservable(cell grid.CellKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.nonReservable[cell]
	return ok
}

func (s *Session) NonReservableCells() []grid.CellKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]grid.CellKey, 0, len(s.nonReservable))
	for k := range s.nonReservable {
		out = append(out, k)
	}
	return out
}

func (s *Session) Occupied(cell grid.CellKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.occupancy.Occupied(cell)
}

func (s *Session) ArrivalSummary(d day.Day) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return grid.ArrivalSummary(s.data, d, s.selectedPlan)
}

func (s *Session) Window() grid.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Window
}

func (s *Session) Units() []grid.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]grid.Unit(nil), s.data.Units...)
}
