package retry

import (
	"errors"
	"time"

	"github.com/redox-os-tools/disk-installer/lib/backoffdelay"
	"github.com/redox-os-tools/disk-installer/lib/clock"
)

var (
	ErrTimeout        = errors.New("timed out")
	ErrTooManyRetries = errors.New("too many retries")
)

type Params struct {
	Clock        clock.Clock          // Default: system time.
	MaxRetries   uint64               // Default: unlimited.
	RetryTimeout time.Duration        // Default: unlimited.
	Sleeper      backoffdelay.Sleeper // Default: 100 milliseconds.
}

// Retry will run the specified function until it returns true or retry limits
// are exceeded. It returns ErrTimeout or ErrTooManyRetries if retry limits are
// exceeded.
func Retry(fn func() bool, params Params) error {
	return retry(fn, params)
}
