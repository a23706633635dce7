/*
Package disks enumerates the whole disks of the system from sysfs.

Partitions and block devices without a backing device (loop, device-mapper,
zram) are skipped, as are entries without an accessible block device node.
*/
package disks

import (
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

type Params struct {
	DevDirectory   string                     // Default: /dev.
	IsBlockDevice  func(pathname string) bool // Default: fsutil.IsBlockDevice.
	Logger         log.DebugLogger
	SysfsDirectory string // Default: /sys.
}

// Classify returns the DiskType for the kernel device name. For SCSI disks
// rotational is called to distinguish solid-state disks; if it fails the
// disk is classified as SATA/SCSI.
func Classify(name string,
	rotational func() (uint64, error)) installer.DiskType {
	return classify(name, rotational)
}

// List returns the whole disks, in natural order of device path.
func List(params Params) ([]installer.DiskDescriptor, error) {
	return list(params)
}

// Lookup returns the descriptor for devicePath, which must be a whole disk.
func Lookup(params Params, devicePath string) (
	*installer.DiskDescriptor, error) {
	return lookup(params, devicePath)
}
