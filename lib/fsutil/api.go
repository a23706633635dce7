package fsutil

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/redox-os-tools/disk-installer/lib/backoffdelay"
	"github.com/redox-os-tools/disk-installer/lib/clock"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"golang.org/x/sys/unix"
)

const (
	DirPerms = unix.S_IRWXU | unix.S_IRGRP | unix.S_IXGRP |
		unix.S_IROTH | unix.S_IXOTH
	PrivateFilePerms = unix.S_IRUSR | unix.S_IWUSR
	PublicFilePerms  = PrivateFilePerms | unix.S_IRGRP | unix.S_IROTH
)

var (
	ErrorLengthMismatch = errors.New("length mismatch")
)

// CopyFile will create a new file, copies data from the sourceFilename to a
// tmpfile and then atomically renames the tmpfile to destFilename, ensuring
// that the file never has incomplete data. If mode is 0 the permissions of
// the source file are used.
// If there are any errors, then destFilename is unchanged.
// CopyFile is not safe to call concurrently for the same file.
func CopyFile(destFilename, sourceFilename string, mode os.FileMode) error {
	_, err := copyFile(destFilename, sourceFilename, mode, false)
	return err
}

// CopyFileVerifyLength is similar to CopyFile except that the size of the
// destination file is compared to the size of the source file after copying.
// If the sizes differ an error wrapping ErrorLengthMismatch is returned. The
// number of bytes copied is returned.
func CopyFileVerifyLength(destFilename, sourceFilename string,
	mode os.FileMode) (uint64, error) {
	return copyFile(destFilename, sourceFilename, mode, true)
}

// CopyToFile will create a new file, write length bytes from reader to a
// tmpfile and then atomically renames the tmpfile to destFilename, ensuring
// that the file never has incomplete data.
// If length is zero all remaining bytes from reader are written. If there are
// any errors, then destFilename is unchanged.
// CopyToFile is not safe to call concurrently for the same file.
func CopyToFile(destFilename string, perm os.FileMode, reader io.Reader,
	length uint64) error {
	return copyToFile(destFilename, perm, reader, length)
}

// VerifyLength compares the size of destFilename to the size of
// sourceFilename. If the sizes differ an error wrapping ErrorLengthMismatch is
// returned. The size of destFilename is returned.
func VerifyLength(destFilename, sourceFilename string) (uint64, error) {
	return verifyLengthOf(destFilename, sourceFilename)
}

// IsBlockDevice returns true if pathname can be opened and is a block device.
func IsBlockDevice(pathname string) bool {
	return isBlockDevice(pathname)
}

// IsRegularFile returns true if pathname exists and is a regular file.
func IsRegularFile(pathname string) bool {
	fi, err := os.Stat(pathname)
	return err == nil && fi.Mode().IsRegular()
}

type WaitParams struct {
	Clock   clock.Clock                // Default: system time.
	Exists  func(pathname string) bool // Default: IsBlockDevice.
	Sleeper backoffdelay.Sleeper       // Default: 1ms to 100ms exponential.
	Timeout time.Duration              // Limited to one hour.
}

// WaitForBlockAvailable will wait for all the specified block device nodes to
// become available, or return an error wrapping retry.ErrTimeout on timeout.
// The number of iterations is returned.
// This is needed in enviroments where block devices such as partitions are
// dynamically created and there is a delay from creation to actual
// availability.
func WaitForBlockAvailable(params WaitParams,
	pathnames ...string) (uint, error) {
	return waitForBlockAvailable(params, pathnames)
}

// NotifySleeper is a backoffdelay.Sleeper which returns early from Sleep when
// an entry is created in a watched directory.
type NotifySleeper struct {
	events   <-chan struct{}
	interval time.Duration
	logger   log.DebugLogger
	maximum  time.Duration
	minimum  time.Duration
	watcher  io.Closer
}

// NewNotifySleeper creates a NotifySleeper watching dirname. Sleep intervals
// grow exponentially from minimumDelay to maximumDelay.
func NewNotifySleeper(dirname string, minimumDelay, maximumDelay time.Duration,
	logger log.DebugLogger) (*NotifySleeper, error) {
	return newNotifySleeper(dirname, minimumDelay, maximumDelay, logger)
}

// Close will stop watching the directory.
func (s *NotifySleeper) Close() error {
	return s.watcher.Close()
}

// Reset restores the minimum sleep interval.
func (s *NotifySleeper) Reset() {
	s.interval = s.minimum
}

// Sleep will sleep for the current interval or until an entry is created in
// the watched directory, whichever comes first.
func (s *NotifySleeper) Sleep() {
	s.sleep()
}
