package osutil

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

var syncFunc = func() error {
	unix.Sync()
	return nil
}

func isPrivileged() bool {
	return os.Geteuid() == 0
}

func syncTimeout(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	waitChannel := make(chan error, 1)
	go func() {
		waitChannel <- syncFunc()
	}()
	select {
	case <-timer.C:
		return fmt.Errorf("timed out waiting for sync() system call")
	case err := <-waitChannel:
		if !timer.Stop() {
			<-timer.C
		}
		return err
	}
}
