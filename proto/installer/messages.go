package installer

const (
	FileSystemKindRedoxFS = 0
	FileSystemKindExt4    = 1

	DiskTypeUnknown  = 0
	DiskTypeNVMe     = 1
	DiskTypeSataSSD  = 2
	DiskTypeSataHDD  = 3
	DiskTypeSataScsi = 4
	DiskTypeIdeHDD   = 5
	DiskTypeVirtual  = 6
	DiskTypeMMC      = 7

	MountMethodUnmounted        = 0
	MountMethodMountedDirect    = 1
	MountMethodMountedViaDriver = 2

	DefaultEfiSizeMB = 512
	MinimumEfiSizeMB = 100
)

type DiskType uint

type FileSystemKind uint

type MountMethod uint

// DiskDescriptor is a snapshot of a whole disk taken at enumeration time.
type DiskDescriptor struct {
	DevicePath string   `json:",omitempty"`
	Model      string   `json:",omitempty"`
	Size       string   `json:",omitempty"`
	SizeBytes  uint64   `json:",omitempty"`
	Type       DiskType `json:",omitempty"`
}

type InstallationConfig struct {
	EfiSizeMB      uint           `json:",omitempty" yaml:"efiSizeMB"`
	FileSystemKind FileSystemKind `json:",omitempty" yaml:"fileSystem"`
}

// NonFatalOutcome records the failure of a best-effort step.
type NonFatalOutcome struct {
	Operation string
	Error     string
}

type PartitionLayout struct {
	DiskPath      string
	EfiPartition  string
	RootPartition string
	EfiStartMiB   uint
	EfiEndMiB     uint
}

// VolumeIdentity is the identifier printed by the RedoxFS formatter. It is
// empty for other file-system kinds.
type VolumeIdentity string
