package day

import (
	"errors"
	"time"
)

var ErrInvalidDay = errors.New("day: not a valid ISO calendar date")

const layout = "2006-01-02"

// Day is a civil calendar date pinned to UTC midnight.
type Day struct {
	t time.Time
}

func New(year int, month time.Month, dayOfMonth int) Day {
	return Day{t: time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)}
}

// Parse reads an ISO "2006-01-02" date string.
func Parse(s string) (Day, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Day{}, ErrInvalidDay
	}
	return Day{t: t}, nil
}

// MustParse is intended for literals in tests and fixtures.
func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime truncates an instant to its UTC calendar date.
func FromTime(t time.Time) Day {
	t = t.UTC()
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current date for the supplied clock reading.
func Today(now time.Time) Day {
	return FromTime(now)
}

func (d Day) String() string { return d.t.Format(layout) }

func (d Day) IsZero() bool { return d.t.IsZero() }

func (d Day) Time() time.Time { return d.t }

func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

func (d Day) Next() Day { return Day{t: d.t.AddDate(0, 0, 1)} }

func (d Day) Prev() Day { return Day{t: d.t.AddDate(0, 0, -1)} }

func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

func (d Day) Before(other Day) bool { return d.t.Before(other.t) }

func (d Day) After(other Day) bool { return d.t.After(other.t) }

func (d Day) Equal(other Day) bool { return d.t.Equal(other.t) }

// DaysBetween counts the days from d to other; negative when other precedes d.
func DaysBetween(d, other Day) int {
	return int(other.t.Sub(d.t) / (24 * time.Hour))
}

// Range lists every day from from to to inclusive, in order.
// An inverted pair yields an empty slice.
func Range(from, to Day) []Day {
	if to.Before(from) {
		return nil
	}
	out := make([]Day, 0, DaysBetween(from, to)+1)
	for d := from; !d.After(to); d = d.Next() {
		out = append(out, d)
	}
	return out
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
