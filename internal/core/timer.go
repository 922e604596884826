package core

import "time"

// Interval decides when a periodic update is due on an externally driven
// clock. Time only moves through Advance, so tests can feed synthetic ticks.
// When more than one period elapses between checks the extra time is dropped,
// not accumulated.
type Interval struct {
	period time.Duration
	now    time.Duration
	last   time.Duration
}

// NewInterval constructs an Interval firing every period. Non-positive
// periods fall back to two seconds.
func NewInterval(period time.Duration) *Interval {
	i := &Interval{}
	i.SetPeriod(period)
	return i
}

// SetPeriod changes the update period. It is safe to call from the main loop.
func (i *Interval) SetPeriod(period time.Duration) {
	if period <= 0 {
		period = 2 * time.Second
	}
	i.period = period
}

// Period returns the configured update period.
func (i *Interval) Period() time.Duration { return i.period }

// Now returns the total time fed through Advance since the last Reset.
func (i *Interval) Now() time.Duration { return i.now }

// Advance moves the clock forward and reports whether an update is due.
// Negative elapsed values are ignored.
func (i *Interval) Advance(elapsed time.Duration) bool {
	if elapsed > 0 {
		i.now += elapsed
	}
	if i.now-i.last >= i.period {
		i.last = i.now
		return true
	}
	return false
}

// Reset rewinds the clock to zero.
func (i *Interval) Reset() {
	i.now = 0
	i.last = 0
}
