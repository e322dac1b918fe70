package domain

import (
	"errors"
	"time"
)

// ErrInvalidDateRange is returned when the end of a range precedes its start.
var ErrInvalidDateRange = errors.New("end date must not be before start date")

// DateRange is an inclusive reporting window. Start is the first instant of
// the first day and End is the last instant of the last day, both UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from two calendar dates, expanding them to the
// full days they name.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if e.Before(s) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{Start: s, End: e}, nil
}

// Contains reports whether t falls inside the range.
func (dr DateRange) Contains(t time.Time) bool {
	return !t.Before(dr.Start) && !t.After(dr.End)
}
