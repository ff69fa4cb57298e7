// Package ts wraps clockwork so timing code can be tested with a fake
// clock.
package ts

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock measures elapsed time for logs.
type Clock struct {
	realClock clockwork.Clock
}

func NewRealClock() *Clock {
	return New(clockwork.NewRealClock())
}

func New(c clockwork.Clock) *Clock {
	return &Clock{realClock: c}
}

func (c *Clock) Now() time.Time {
	return c.realClock.Now()
}

// Since is the time elapsed since t, rounded to the microsecond; nobody
// reading a log needs nanoseconds.
func (c *Clock) Since(t time.Time) time.Duration {
	return c.realClock.Since(t).Round(time.Microsecond)
}

func (c *Clock) RealClock() clockwork.Clock {
	return c.realClock
}
