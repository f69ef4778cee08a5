// Package timeutil provides the capture clock for partition stamps and
// report-period parsing. The feed publishes on JST wall time, so partition
// dates and hours are taken in a configured location rather than UTC.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	hourLayout = "15"
)

// Stamp is the (date, hour) capture stamp shared by every batch in one
// collection run.
type Stamp struct {
	Date string // "YYYY-MM-DD"
	Hour string // "HH"
	At   time.Time
}

// Clock produces capture stamps in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a clock for the named IANA timezone.
func NewClock(tz string) (*Clock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewClockAt creates a clock with a fixed now function. For tests.
func NewClockAt(loc *time.Location, now func() time.Time) *Clock {
	return &Clock{loc: loc, now: now}
}

// Location returns the clock's location.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current time in the clock's location.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Stamp returns the capture stamp for the current time. Taken once at the
// start of a run and reused for every item in it.
func (c *Clock) Stamp() Stamp {
	t := c.Now()
	return Stamp{
		Date: t.Format(dateLayout),
		Hour: t.Format(hourLayout),
		At:   t,
	}
}

// ParsePeriod parses a report period of the form "3d", "2w" or "1m"
// (days, weeks, months; a month counts as 30 days) into a duration.
func ParsePeriod(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid period %q", s)
	}

	num, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || num < 1 {
		return 0, fmt.Errorf("invalid period %q", s)
	}

	const day = 24 * time.Hour
	switch strings.ToLower(s[len(s)-1:]) {
	case "d":
		return time.Duration(num) * day, nil
	case "w":
		return time.Duration(num) * 7 * day, nil
	case "m":
		return time.Duration(num) * 30 * day, nil
	default:
		return 0, fmt.Errorf("invalid period unit in %q: use d, w, or m", s)
	}
}
