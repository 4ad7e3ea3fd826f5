package grid

// SelectionStore holds the current multi-cell selection plus the active-unit
// display filter. It knows nothing about input devices; DragSelector and the
// keyboard operations mutate it and callers recompute derived views
// afterwards.
type SelectionStore struct {
	cells map[CellKey]struct{}
	units map[UnitID]struct{}
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{
		cells: map[CellKey]struct{}{},
		units: map[UnitID]struct{}{},
	}
}

func (s *SelectionStore) Selected(k CellKey) bool {
	_, ok := s.cells[k]
	return ok
}

func (s *SelectionStore) Count() int { return len(s.cells) }

// Cells returns a snapshot of the selection; mutating it does not touch the
// store.
func (s *SelectionStore) Cells() []CellKey {
	out := make([]CellKey, 0, len(s.cells))
	for k := range s.cells {
		out = append(out, k)
	}
	return out
}

// Toggle flips a cell's membership. Cells of filtered-out units are
// refused, keeping the active-unit invariant across every mutation path.
func (s *SelectionStore) Toggle(k CellKey) {
	if _, ok := s.cells[k]; ok {
		delete(s.cells, k)
		return
	}
	if !s.UnitActive(k.Unit) {
		return
	}
	s.cells[k] = struct{}{}
}

func (s *SelectionStore) Add(k CellKey) {
	if !s.UnitActive(k.Unit) {
		return
	}
	s.cells[k] = struct{}{}
}

func (s *SelectionStore) Remove(k CellKey) {
	delete(s.cells, k)
}

// SetAll replaces the selection with exactly the given cells, minus any
// belonging to a filtered-out unit.
func (s *SelectionStore) SetAll(cells []CellKey) {
	s.cells = make(map[CellKey]struct{}, len(cells))
	s.Union(cells)
}

// Union adds the given cells to the existing selection, skipping cells of
// filtered-out units.
func (s *SelectionStore) Union(cells []CellKey) {
	for _, k := range cells {
		if !s.UnitActive(k.Unit) {
			continue
		}
		s.cells[k] = struct{}{}
	}
}

func (s *SelectionStore) Clear() {
	s.cells = map[CellKey]struct{}{}
}

// PruneInvalid drops every cell the predicate rejects. Callers run it after
// the active-unit filter or the visible window changes so no stale key
// survives.
func (s *SelectionStore) PruneInvalid(valid func(CellKey) bool) {
	for k := range s.cells {
		if !valid(k) {
			delete(s.cells, k)
		}
	}
}

// ActiveUnits returns the unit filter; empty means "no filter, show all".
func (s *SelectionStore) ActiveUnits() []UnitID {
	out := make([]UnitID, 0, len(s.units))
	for u := range s.units {
		out = append(out, u)
	}
	return out
}

func (s *SelectionStore) UnitActive(u UnitID) bool {
	if len(s.units) == 0 {
		return true
	}
	_, ok := s.units[u]
	return ok
}

// SetActiveUnits replaces the unit filter and prunes cells that fall
// outside it, keeping the filter invariant without a separate call.
func (s *SelectionStore) SetActiveUnits(units []UnitID) {
	s.units = make(map[UnitID]struct{}, len(units))
	for _, u := range units {
		s.units[u] = struct{}{}
	}
	if len(s.units) == 0 {
		return
	}
	s.PruneInvalid(func(k CellKey) bool {
		_, ok := s.units[k.Unit]
		return ok
	})
}
