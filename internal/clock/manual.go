package clock

import (
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called. Scheduled
// callbacks run synchronously inside Advance, so tests observe their effects
// as soon as Advance returns.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock    *Manual
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewManual returns a Manual clock starting at the given time.
func NewManual(now time.Time) *Manual {
	return &Manual{
		mu:     sync.Mutex{},
		now:    now,
		timers: nil,
	}
}

func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Manual) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{
		clock:    c,
		deadline: c.now.Add(d),
		f:        f,
		stopped:  false,
		fired:    false,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d and fires every timer whose deadline has
// passed, in deadline order.
func (c *Manual) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()

	for {
		t := c.nextDue()
		if t == nil {
			return
		}
		t.f()
	}
}

// nextDue pops the earliest unstopped timer that is due, or nil.
func (c *Manual) nextDue() *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var (
		next    *manualTimer
		nextIdx = -1
	)
	for i, t := range c.timers {
		if t.stopped || t.fired || t.deadline.After(c.now) {
			continue
		}
		if next == nil || t.deadline.Before(next.deadline) {
			next = t
			nextIdx = i
		}
	}
	if next == nil {
		return nil
	}
	next.fired = true
	c.timers = append(c.timers[:nextIdx], c.timers[nextIdx+1:]...)
	return next
}
