/*
Package planner computes the two-partition GPT layout used for an
installation: an EFI System Partition followed by a root partition which
fills the rest of the disk.
*/
package planner

import (
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

const EfiStartMiB = 1

// ComputeLayout returns the partition layout for diskPath. It does no I/O.
func ComputeLayout(diskPath string,
	config installer.InstallationConfig) installer.PartitionLayout {
	return computeLayout(diskPath, config)
}

// PartitionName returns the device path of partition number index on
// diskPath. Disk names ending in a digit (nvme0n1, mmcblk0) take a "p"
// separator.
func PartitionName(diskPath string, index uint) string {
	return partitionName(diskPath, index)
}

// PartedArgs returns the arguments for the parted invocations which create
// layout, in order.
func PartedArgs(layout installer.PartitionLayout) [][]string {
	return partedArgs(layout)
}
