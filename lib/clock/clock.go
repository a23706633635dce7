package clock

import (
	"sync"
	"time"
)

// Clock provides an abstraction for time operations so that polling loops may
// be tested deterministically.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock implements Clock using the system time.
type RealClock struct{}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// FakeClock implements Clock with a settable time. Sleep advances the time
// instead of blocking.
type FakeClock struct {
	mutex    sync.Mutex
	current  time.Time
	slept    time.Duration
	numSleep uint
}

// New returns a Clock using the system time.
func New() Clock {
	return &RealClock{}
}

// NewFakeClock creates a new FakeClock with the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

func (c *FakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.current
}

// Set updates the current time.
func (c *FakeClock) Set(t time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.current = t
}

// Advance moves the current time forward by the given duration.
func (c *FakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.current = c.current.Add(d)
}

func (c *FakeClock) Sleep(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.current = c.current.Add(d)
	c.slept += d
	c.numSleep++
}

// Slept returns the total time slept and the number of calls to Sleep.
func (c *FakeClock) Slept() (time.Duration, uint) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.slept, c.numSleep
}
