package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ratedesk/internal/domain/day"
)

var ErrMalformedKey = errors.New("grid: malformed cell key")

// UnitID identifies a rentable accommodation instance.
type UnitID int64

// PlanID identifies a rate plan linked to zero or more units.
type PlanID int64

// CellKey addresses one (unit, date) cell of the grid.
type CellKey struct {
	Unit UnitID
	Day  day.Day
}

// FieldKey addresses a rate-plan-scoped value on one cell.
type FieldKey struct {
	Unit UnitID
	Day  day.Day
	Plan PlanID
}

func (k CellKey) String() string {
	return fmt.Sprintf("%d-%s", k.Unit, k.Day)
}

func (k FieldKey) String() string {
	return fmt.Sprintf("%d-%s-%d", k.Unit, k.Day, k.Plan)
}

func (k FieldKey) Cell() CellKey {
	return CellKey{Unit: k.Unit, Day: k.Day}
}

// ParseCellKey inverts CellKey.String: "unit-YYYY-MM-DD".
func ParseCellKey(s string) (CellKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 4 {
		return CellKey{}, ErrMalformedKey
	}
	unit, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return CellKey{}, ErrMalformedKey
	}
	d, err := day.Parse(strings.Join(parts[1:4], "-"))
	if err != nil {
		return CellKey{}, ErrMalformedKey
	}
	return CellKey{Unit: UnitID(unit), Day: d}, nil
}

// ParseFieldKey inverts FieldKey.String: "unit-YYYY-MM-DD-plan".
func ParseFieldKey(s string) (FieldKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 5 {
		return FieldKey{}, ErrMalformedKey
	}
	unit, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return FieldKey{}, ErrMalformedKey
	}
	d, err := day.Parse(strings.Join(parts[1:4], "-"))
	if err != nil {
		return FieldKey{}, ErrMalformedKey
	}
	plan, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		return FieldKey{}, ErrMalformedKey
	}
	return FieldKey{Unit: UnitID(unit), Day: d, Plan: PlanID(plan)}, nil
}
