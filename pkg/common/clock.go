package common

import "time"

// Clock gives the current time and the zone used for calendar-date
// comparisons. "Today" is always derived from Now() at call time.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type SystemClock struct {
	Loc *time.Location
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.Location())
}

func (c SystemClock) Location() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}

// FixedClock always reports the same instant. Used by tests.
type FixedClock struct {
	At  time.Time
	Loc *time.Location
}

func (c *FixedClock) Now() time.Time {
	return c.At.In(c.Location())
}

func (c *FixedClock) Location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

func (c *FixedClock) Advance(d time.Duration) {
	c.At = c.At.Add(d)
}

// SameDate reports whether a and b fall on the same calendar date in loc.
func SameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
