package installer

import (
	"errors"
	"fmt"
)

const (
	diskTypeUnknown       = "Unknown"
	fileSystemKindUnknown = "UNKNOWN FileSystemKind"
	mountMethodUnknown    = "UNKNOWN MountMethod"
)

var (
	diskTypeToText = map[DiskType]string{
		DiskTypeUnknown:  diskTypeUnknown,
		DiskTypeNVMe:     "NVMe SSD",
		DiskTypeSataSSD:  "SATA SSD",
		DiskTypeSataHDD:  "SATA HDD",
		DiskTypeSataScsi: "SATA/SCSI",
		DiskTypeIdeHDD:   "IDE HDD",
		DiskTypeVirtual:  "Virtual Disk",
		DiskTypeMMC:      "MMC/SD Card",
	}
	fileSystemKindToText = map[FileSystemKind]string{
		FileSystemKindRedoxFS: "redoxfs",
		FileSystemKindExt4:    "ext4",
	}
	mountMethodToText = map[MountMethod]string{
		MountMethodUnmounted:        "unmounted",
		MountMethodMountedDirect:    "mounted-direct",
		MountMethodMountedViaDriver: "mounted-via-background-driver",
	}
	textToFileSystemKind map[string]FileSystemKind
)

func init() {
	textToFileSystemKind = make(map[string]FileSystemKind,
		len(fileSystemKindToText))
	for fileSystemKind, text := range fileSystemKindToText {
		textToFileSystemKind[text] = fileSystemKind
	}
}

func (diskType DiskType) String() string {
	if str, ok := diskTypeToText[diskType]; !ok {
		return diskTypeUnknown
	} else {
		return str
	}
}

func (fileSystemKind FileSystemKind) MarshalText() ([]byte, error) {
	if text := fileSystemKind.String(); text == fileSystemKindUnknown {
		return nil, errors.New(text)
	} else {
		return []byte(text), nil
	}
}

func (fileSystemKind *FileSystemKind) Set(value string) error {
	if val, ok := textToFileSystemKind[value]; !ok {
		return errors.New(fileSystemKindUnknown + ": " + value)
	} else {
		*fileSystemKind = val
		return nil
	}
}

func (fileSystemKind FileSystemKind) String() string {
	if str, ok := fileSystemKindToText[fileSystemKind]; !ok {
		return fileSystemKindUnknown
	} else {
		return str
	}
}

func (fileSystemKind *FileSystemKind) UnmarshalText(text []byte) error {
	return fileSystemKind.Set(string(text))
}

// IsCustom returns true if the file-system kind needs the RedoxFS tools.
func (fileSystemKind FileSystemKind) IsCustom() bool {
	return fileSystemKind == FileSystemKindRedoxFS
}

func (config InstallationConfig) Validate() error {
	if config.EfiSizeMB < MinimumEfiSizeMB {
		return fmt.Errorf("EFI partition size: %d MB is less than minimum: %d MB",
			config.EfiSizeMB, MinimumEfiSizeMB)
	}
	if _, ok := fileSystemKindToText[config.FileSystemKind]; !ok {
		return errors.New(fileSystemKindUnknown)
	}
	return nil
}

func (mountMethod MountMethod) String() string {
	if str, ok := mountMethodToText[mountMethod]; !ok {
		return mountMethodUnknown
	} else {
		return str
	}
}

func (outcome NonFatalOutcome) String() string {
	return outcome.Operation + ": " + outcome.Error
}

// RootReference returns the value for the root= line of the boot
// configuration: the volume identity if there is one, else the root
// partition device path.
func (layout PartitionLayout) RootReference(identity VolumeIdentity) string {
	if identity != "" {
		return string(identity)
	}
	return layout.RootPartition
}
