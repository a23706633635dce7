package constants

const (
	ProgramName = "redox-installer"

	DefaultBuildRoot      = "."
	DefaultEfiMountPoint  = "/tmp/redox_install_efi"
	DefaultRootMountPoint = "/tmp/redox_install_root"
	DefaultRedoxfsMkfs    = "redoxfs-mkfs"
	DefaultRedoxfsDriver  = "redoxfs"
	DefaultStagingDir     = "build/installer-artifacts"

	MinimumDiskSize = 2 << 30

	EfiLabel  = "REDOX_EFI"
	RootLabel = "REDOX_ROOT"

	BootEntryLabel  = "Redox OS"
	BootEntryLoader = `\EFI\redox\redox-bootloader.efi`

	LogArchiveFile = "/var/log/installer/log"
)

var RequiredTools = []string{
	"parted",
	"mkfs.vfat",
	"mount",
	"umount",
	"wipefs",
	"partprobe",
	"blockdev",
	"dd",
}
