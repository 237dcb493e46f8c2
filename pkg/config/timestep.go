package config

import (
	"fmt"
	"time"
)

// TimeStep is the cadence at which the model advances through the
// configured date range.
type TimeStep int

const (
	Daily TimeStep = iota
	Weekly
	Monthly
)

func (ts TimeStep) String() string {
	switch ts {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	}
	return fmt.Sprintf("TimeStep(%d)", int(ts))
}

// ParseTimeStep resolves a configuration string to a TimeStep.
func ParseTimeStep(s string) (TimeStep, error) {
	switch s {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	}
	return 0, fmt.Errorf("invalid time step %q (want daily, weekly or monthly)", s)
}

// Advance returns the date one step forward. A monthly step clamps to
// the last day of the target month, so Jan 31 advances to Feb 28.
func (ts TimeStep) Advance(d time.Time) time.Time {
	switch ts {
	case Daily:
		return d.AddDate(0, 0, 1)
	case Weekly:
		return d.AddDate(0, 0, 7)
	case Monthly:
		return addMonthClamped(d)
	}
	return d
}

func addMonthClamped(d time.Time) time.Time {
	y, m, day := d.Date()
	m++
	if m > time.December {
		m = time.January
		y++
	}
	if last := daysIn(y, m); day > last {
		day = last
	}
	return time.Date(y, m, day, d.Hour(), 0, 0, 0, d.Location())
}

func daysIn(y int, m time.Month) int {
	// Day zero of the next month.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
