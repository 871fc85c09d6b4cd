package clock

import (
	"sync"
	"time"
)

// Clock supplies "now" and the business-local calendar used for same-day aggregation
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type realClock struct {
	loc *time.Location
}

// New returns a wall clock bound to the given business location
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return realClock{loc: loc}
}

// NewFromName loads the IANA zone and falls back to UTC when it is unknown
func NewFromName(name string) (Clock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return New(time.UTC), err
	}
	return New(loc), nil
}

func (c realClock) Now() time.Time { return time.Now().UTC() }

func (c realClock) Location() *time.Location { return c.loc }

// Fixed is a settable clock for tests
type Fixed struct {
	mu  sync.Mutex
	now time.Time
	loc *time.Location
}

// NewFixed returns a clock frozen at t
func NewFixed(t time.Time, loc *time.Location) *Fixed {
	if loc == nil {
		loc = time.UTC
	}
	return &Fixed{now: t.UTC(), loc: loc}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fixed) Location() *time.Location { return f.loc }

// Set moves the clock to t
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.now = t.UTC()
	f.mu.Unlock()
}

// Advance moves the clock forward by d
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// DayBounds returns the UTC instants delimiting the business-local calendar day containing t.
// The range is half-open: [start, end).
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC()
}

// Today returns the bounds of the current business day
func Today(c Clock) (time.Time, time.Time) {
	return DayBounds(c.Now(), c.Location())
}
