package clock

import (
	"sync"
	"time"
)

// DateLayout is the ISO calendar-day format used for every date key.
const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

// Real reads the wall clock. A nil Location means time.Local.
type Real struct {
	Location *time.Location
}

func (r Real) Now() time.Time {
	if r.Location == nil {
		return time.Now()
	}
	return time.Now().In(r.Location)
}

// Fake is deterministic and test-friendly.
type Fake struct {
	mu sync.Mutex
	t  time.Time
}

func NewFake(start time.Time) *Fake {
	return &Fake{t: start}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Fake) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Date formats t as YYYY-MM-DD in t's own location.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current calendar day of c.
func Today(c Clock) string {
	return Date(c.Now())
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// AddDays shifts an ISO date by n calendar days.
func AddDays(date string, n int) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return Date(d.AddDate(0, 0, n)), nil
}
