package backoffdelay

import (
	"time"

	"github.com/redox-os-tools/disk-installer/lib/clock"
)

type Sleeper interface {
	Sleep()
}

// Resetter is implemented by Sleepers which have state that should be cleared
// before they are re-used.
type Resetter interface {
	Reset()
}

// NewExponential creates a Sleeper with specified minimum and maximum delays.
// If minimumDelay is less than or equal to 0, the default is 1 second.
// If maximumDelay is less than or equal to minimumDelay, the default is 10
// times minimumDelay.
// The Sleep interval will increase by a factor of 2 raised to the power of
// -growthRate. For example:
// 0: 1x
// 1: 0.5x
// 2: 0.25x
func NewExponential(minimumDelay, maximumDelay time.Duration,
	growthRate uint) Sleeper {
	return newExponential(minimumDelay, maximumDelay, growthRate, time.Sleep)
}

// NewExponentialWithClock is like NewExponential except that delays are
// taken using the Sleep method of the specified clock.
func NewExponentialWithClock(minimumDelay, maximumDelay time.Duration,
	growthRate uint, clk clock.Clock) Sleeper {
	return newExponential(minimumDelay, maximumDelay, growthRate, clk.Sleep)
}
