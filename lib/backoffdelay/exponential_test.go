package backoffdelay

import (
	"testing"
	"time"
)

func TestExponentialGrowth(t *testing.T) {
	var delays []time.Duration
	sleeper := newExponential(100*time.Millisecond, 400*time.Millisecond, 0,
		func(d time.Duration) { delays = append(delays, d) })
	for i := 0; i < 4; i++ {
		sleeper.Sleep()
	}
	expected := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		400 * time.Millisecond,
	}
	for index, delay := range expected {
		if delays[index] != delay {
			t.Errorf("delay[%d]: %s != %s", index, delays[index], delay)
		}
	}
	sleeper.Reset()
	sleeper.Sleep()
	if delays[4] != 100*time.Millisecond {
		t.Errorf("delay after Reset(): %s", delays[4])
	}
}

func TestExponentialDefaults(t *testing.T) {
	sleeper := newExponential(0, 0, 1, func(time.Duration) {})
	if sleeper.minimum != time.Second {
		t.Errorf("minimum: %s", sleeper.minimum)
	}
	if sleeper.maximum != 10*time.Second {
		t.Errorf("maximum: %s", sleeper.maximum)
	}
}
