/*
Package provision creates the partition table and the file-systems of an
installation. Each step is delegated to an external programme and checked
before the next step starts; the first failure ends the run.
*/
package provision

import (
	"time"

	"github.com/redox-os-tools/disk-installer/lib/backoffdelay"
	"github.com/redox-os-tools/disk-installer/lib/clock"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

const (
	DefaultSettleTimeout = 10 * time.Second
	RedoxfsMkfsHint      = "build RedoxFS first (cargo build --release in the redoxfs tree) or set -redoxfsMkfs"
	SuccessMarker        = "created filesystem"
	IdentityKeyword      = "uuid"
)

// FileSystemProber returns the name of the file-system found on device.
type FileSystemProber func(device string) (string, error)

type Params struct {
	Clock         clock.Clock                // Default: system time.
	DeviceExists  func(pathname string) bool // Default: fsutil.IsBlockDevice.
	Logger        log.DebugLogger
	Prober        FileSystemProber // Default: no verification.
	RedoxfsMkfs   string
	Runner        tools.Runner
	SettleTimeout time.Duration        // Default: DefaultSettleTimeout.
	Sleeper       backoffdelay.Sleeper // Default: exponential.
	Sync          func() error         // Default: bounded sync(2).
}

type Result struct {
	Outcomes       []installer.NonFatalOutcome
	VolumeIdentity installer.VolumeIdentity
}

// CreatePartitions wipes existing signatures from the disk, writes a GPT
// partition table with the partitions of layout and waits for the kernel to
// create the partition device nodes.
func CreatePartitions(layout installer.PartitionLayout,
	params Params) (*Result, error) {
	return createPartitions(layout, params)
}

// FormatPartitions makes a FAT32 file-system on the EFI partition and a
// file-system of the configured kind on the root partition. For RedoxFS the
// volume identity printed by the formatter is returned.
func FormatPartitions(layout installer.PartitionLayout,
	config installer.InstallationConfig, params Params) (*Result, error) {
	return formatPartitions(layout, config, params)
}

// DeviceSize returns the size in bytes of device as reported by blockdev. A
// zero size is an error.
func DeviceSize(runner tools.Runner, device string) (uint64, error) {
	return getPartitionSize(runner, device)
}

// ParseFormatterOutput checks the diagnostic output of the RedoxFS formatter
// for the success marker and extracts the volume identity: the last word of
// the first line containing IdentityKeyword. A *errors.ParseError is returned
// if either is missing.
func ParseFormatterOutput(tool, output string) (installer.VolumeIdentity,
	error) {
	return parseFormatterOutput(tool, output)
}

// ProbeFileSystem uses blkid probing to identify the file-system on device.
func ProbeFileSystem(device string) (string, error) {
	return probeFileSystem(device)
}
