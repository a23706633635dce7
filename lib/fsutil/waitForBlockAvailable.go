package fsutil

import (
	"fmt"
	"os"
	"time"

	"github.com/redox-os-tools/disk-installer/lib/backoffdelay"
	"github.com/redox-os-tools/disk-installer/lib/clock"
	"github.com/redox-os-tools/disk-installer/lib/retry"
)

func isBlockDevice(pathname string) bool {
	// Need to open rather than just test for inode existance, because an
	// Open(2) is what may be needed to trigger dynamic device node creation
	file, err := os.Open(pathname)
	if err != nil {
		return false
	}
	fi, err := file.Stat()
	file.Close()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeDevice != 0
}

func waitForBlockAvailable(params WaitParams, pathnames []string) (
	uint, error) {
	if params.Timeout <= 0 || params.Timeout > time.Hour {
		params.Timeout = time.Hour
	}
	if params.Clock == nil {
		params.Clock = clock.New()
	}
	if params.Exists == nil {
		params.Exists = IsBlockDevice
	}
	if params.Sleeper == nil {
		params.Sleeper = backoffdelay.NewExponentialWithClock(time.Millisecond,
			100*time.Millisecond, 2, params.Clock)
	}
	var numIterations uint
	var missing string
	err := retry.Retry(func() bool {
		numIterations++
		for _, pathname := range pathnames {
			if !params.Exists(pathname) {
				missing = pathname
				return false
			}
		}
		return true
	}, retry.Params{
		Clock:        params.Clock,
		RetryTimeout: params.Timeout,
		Sleeper:      params.Sleeper,
	})
	if err != nil {
		return numIterations, fmt.Errorf("%w waiting for: %s after %d checks",
			err, missing, numIterations)
	}
	return numIterations, nil
}
