/*
Package mounter mounts the partitions of an installation.

The EFI partition is always mounted directly. The root partition is first
mounted directly; if that fails and the RedoxFS driver is installed, the
driver is started in the background to serve the root mount point and is
polled until the mount table lists the root mount point and it is writable.
*/
package mounter

import (
	"time"

	"github.com/redox-os-tools/disk-installer/lib/backoffdelay"
	"github.com/redox-os-tools/disk-installer/lib/clock"
	"github.com/redox-os-tools/disk-installer/lib/fsutil/mounts"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

const (
	DefaultExitTimeout  = 5 * time.Second
	DefaultReadyTimeout = 10 * time.Second
)

type Params struct {
	Clock          clock.Clock // Default: system time.
	DriverPath     string
	EfiMountPoint  string
	ExitTimeout    time.Duration // Default: DefaultExitTimeout.
	Logger         log.DebugLogger
	MountTable     func() (*mounts.MountTable, error) // Default: system.
	ReadyTimeout   time.Duration                      // Default: DefaultReadyTimeout.
	RootMountPoint string
	Runner         tools.Runner
	Sleeper        backoffdelay.Sleeper // Default: exponential.
	Sync           func() error         // Default: bounded sync(2).
}

// MountState records how each partition was mounted. If the root partition
// is served by the background driver, the MountState owns the driver process.
type MountState struct {
	Efi            installer.MountMethod
	EfiMountPoint  string
	Root           installer.MountMethod
	RootMountPoint string
	driver         tools.Process
}

// MountAll creates the mount points and mounts both partitions of layout.
// On failure the returned MountState records whatever was mounted.
func MountAll(layout installer.PartitionLayout,
	params Params) (*MountState, error) {
	return mountAll(layout, params)
}

// Driver returns the background driver process, or nil.
func (s *MountState) Driver() tools.Process {
	return s.driver
}

// MountedPoints returns the mount points which are currently mounted.
func (s *MountState) MountedPoints() []string {
	return s.mountedPoints()
}

// UnmountAll syncs and unmounts the root and then the EFI mount points. A
// background driver is waited for and killed if it does not exit. The mount
// point directories are removed if possible.
func (s *MountState) UnmountAll(params Params) (
	[]installer.NonFatalOutcome, error) {
	return s.unmountAll(params)
}
