// Package clock provides the wall-clock source used for dates on products,
// invoices and the "today"/"this month" sales windows.
//
// Dates are ISO strings in UTC (YYYY-MM-DD), so day and month windows can be
// matched by string prefix.
package clock

import (
	"sync"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed is a settable clock for tests. Safe for concurrent use.
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = t
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func Today(c Clock) string {
	return c.Now().UTC().Format(DateLayout)
}

func Month(c Clock) string {
	return c.Now().UTC().Format(MonthLayout)
}
