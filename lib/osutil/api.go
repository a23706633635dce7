package osutil

import (
	"time"
)

// IsPrivileged returns true if the process is running with an effective user
// ID of root.
func IsPrivileged() bool {
	return isPrivileged()
}

// SyncTimeout will call the sync(2) system call, waiting at most timeout for
// it to complete. It will not block indefinitely on syncing.
func SyncTimeout(timeout time.Duration) error {
	return syncTimeout(timeout)
}
