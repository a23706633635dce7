package pipeline

import (
	"fmt"
)

var (
	stageToText = map[Stage]string{
		StageVerifyDisk:        "verify-disk",
		StageUnmountExisting:   "unmount-existing",
		StageCreatePartitions:  "create-partitions",
		StageFormatPartitions:  "format-partitions",
		StageMountPartitions:   "mount-partitions",
		StageInstallBootloader: "install-bootloader",
		StageInstallFilesystem: "install-filesystem",
		StageInstallKernel:     "install-kernel",
		StageCreateConfigFiles: "create-config-files",
		StageUnmountPartitions: "unmount-partitions",
	}

	stageDescriptions = map[Stage]string{
		StageVerifyDisk:        "Verifying disk",
		StageUnmountExisting:   "Unmounting existing file-systems",
		StageCreatePartitions:  "Creating partitions",
		StageFormatPartitions:  "Formatting partitions",
		StageMountPartitions:   "Mounting partitions",
		StageInstallBootloader: "Installing UEFI bootloader",
		StageInstallFilesystem: "Installing file-system tree",
		StageInstallKernel:     "Installing kernel",
		StageCreateConfigFiles: "Creating boot configuration",
		StageUnmountPartitions: "Unmounting partitions",
	}
)

func stages() []Stage {
	list := make([]Stage, 0, len(stageToText))
	for stage := StageVerifyDisk; stage <= StageUnmountPartitions; stage++ {
		list = append(list, stage)
	}
	return list
}

func (stage Stage) step() uint {
	if stage < StageCreatePartitions || stage > StageUnmountPartitions {
		return 0
	}
	return uint(stage-StageCreatePartitions) + 1
}

func (stage Stage) string() string {
	if text, ok := stageToText[stage]; ok {
		return text
	}
	return fmt.Sprintf("UNKNOWN Stage(%d)", stage)
}
