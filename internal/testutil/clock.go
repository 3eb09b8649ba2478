package testutil

import (
	"sort"
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// FakeClock is a manual clock. Callbacks registered with AfterFunc run
// during Advance once their deadline is reached.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []fakeTimer
}

type fakeTimer struct {
	at time.Time
	fn func()
}

// NewFakeClock initializes a FakeClock at the provided start time.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules fn to run d after the current fake time.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers = append(c.timers, fakeTimer{at: c.now.Add(d), fn: fn})
}

// Pending reports how many scheduled callbacks have not fired.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves the fake time forward and fires due callbacks in deadline
// order, outside the clock lock.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due, rest []fakeTimer
	for _, timer := range c.timers {
		if timer.at.After(c.now) {
			rest = append(rest, timer)
			continue
		}
		due = append(due, timer)
	}
	c.timers = rest
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, timer := range due {
		timer.fn()
	}
}
