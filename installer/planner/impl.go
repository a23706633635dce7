package planner

import (
	"strconv"

	"github.com/redox-os-tools/disk-installer/proto/installer"
	"github.com/siderolabs/go-blockdevice/v2/partitioning"
)

func computeLayout(diskPath string,
	config installer.InstallationConfig) installer.PartitionLayout {
	return installer.PartitionLayout{
		DiskPath:      diskPath,
		EfiPartition:  partitionName(diskPath, 1),
		RootPartition: partitionName(diskPath, 2),
		EfiStartMiB:   EfiStartMiB,
		EfiEndMiB:     config.EfiSizeMB,
	}
}

func partitionName(diskPath string, index uint) string {
	return partitioning.DevName(diskPath, index)
}

func partedArgs(layout installer.PartitionLayout) [][]string {
	efiStart := strconv.FormatUint(uint64(layout.EfiStartMiB), 10) + "MiB"
	efiEnd := strconv.FormatUint(uint64(layout.EfiEndMiB), 10) + "MiB"
	disk := layout.DiskPath
	return [][]string{
		{"-s", disk, "mklabel", "gpt"},
		{"-s", disk, "mkpart", "primary", "fat32", efiStart, efiEnd},
		{"-s", disk, "set", "1", "esp", "on"},
		{"-s", disk, "mkpart", "primary", efiEnd, "100%"},
	}
}
