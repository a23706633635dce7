package backoffdelay

import (
	"time"
)

type exponential struct {
	growthRate uint
	interval   time.Duration
	maximum    time.Duration
	minimum    time.Duration
	sleep      func(time.Duration)
}

func newExponential(minimumDelay, maximumDelay time.Duration,
	growthRate uint, sleep func(time.Duration)) *exponential {
	e := &exponential{
		growthRate: growthRate,
		maximum:    maximumDelay,
		minimum:    minimumDelay,
		sleep:      sleep,
	}
	if e.minimum <= 0 {
		e.minimum = time.Second
	}
	if e.maximum <= e.minimum {
		e.maximum = 10 * e.minimum
	}
	e.interval = e.minimum
	return e
}

// next returns the interval following e.interval, capped at the maximum.
func (e *exponential) next() time.Duration {
	interval := e.interval + e.interval>>e.growthRate
	if interval > e.maximum {
		return e.maximum
	}
	return interval
}

func (e *exponential) Reset() {
	e.interval = e.minimum
}

func (e *exponential) Sleep() {
	e.sleep(e.interval)
	e.interval = e.next()
}
