package retry

import (
	"testing"
	"time"

	"github.com/redox-os-tools/disk-installer/lib/backoffdelay"
	"github.com/redox-os-tools/disk-installer/lib/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRetrySucceeds(t *testing.T) {
	clk := clock.NewFakeClock(epoch)
	var count int
	err := Retry(func() bool {
		count++
		return count >= 3
	}, Params{Clock: clk, RetryTimeout: 10 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("function called %d times, expected 3", count)
	}
	if slept, _ := clk.Slept(); slept != 200*time.Millisecond {
		t.Errorf("slept %s, expected 200ms", slept)
	}
}

func TestRetryTimeout(t *testing.T) {
	clk := clock.NewFakeClock(epoch)
	err := Retry(func() bool { return false },
		Params{
			Clock:        clk,
			RetryTimeout: 10 * time.Second,
			Sleeper: backoffdelay.NewExponentialWithClock(
				100*time.Millisecond, time.Second, 1, clk),
		})
	if err != ErrTimeout {
		t.Fatalf("expected ErrTimeout, got: %v", err)
	}
	if elapsed := clk.Now().Sub(epoch); elapsed < 10*time.Second ||
		elapsed > 11*time.Second {
		t.Errorf("gave up after %s", elapsed)
	}
}

func TestRetryMaxRetries(t *testing.T) {
	clk := clock.NewFakeClock(epoch)
	var count uint64
	err := Retry(func() bool {
		count++
		return false
	}, Params{Clock: clk, MaxRetries: 5})
	if err != ErrTooManyRetries {
		t.Fatalf("expected ErrTooManyRetries, got: %v", err)
	}
	if count != 5 {
		t.Errorf("function called %d times, expected 5", count)
	}
}
