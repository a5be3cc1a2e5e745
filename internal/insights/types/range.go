package types

import (
	"fmt"
	"time"
)

// ISODate is the canonical date layout used throughout the pipeline.
const ISODate = "2006-01-02"

// DateRange is an inclusive calendar range with Start <= End, both in ISO
// YYYY-MM-DD form.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewDateRange validates and builds a DateRange.
func NewDateRange(start, end string) (DateRange, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks both endpoints parse and Start <= End.
func (r DateRange) Validate() error {
	start, err := time.Parse(ISODate, r.Start)
	if err != nil {
		return fmt.Errorf("invalid range start %q", r.Start)
	}
	end, err := time.Parse(ISODate, r.End)
	if err != nil {
		return fmt.Errorf("invalid range end %q", r.End)
	}
	if end.Before(start) {
		return fmt.Errorf("range end %s before start %s", r.End, r.Start)
	}
	return nil
}

// Times returns the parsed endpoints in UTC.
func (r DateRange) Times() (time.Time, time.Time, error) {
	start, err := time.Parse(ISODate, r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range start %q", r.Start)
	}
	end, err := time.Parse(ISODate, r.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range end %q", r.End)
	}
	return start.UTC(), end.UTC(), nil
}

// Days returns the number of calendar days in the inclusive range.
func (r DateRange) Days() (int, error) {
	start, end, err := r.Times()
	if err != nil {
		return 0, err
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}
