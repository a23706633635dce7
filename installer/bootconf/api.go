/*
Package bootconf generates the fixed configuration files of an installation.

Nothing here depends on the state of the target disk, except the boot
configuration which names the root volume.
*/
package bootconf

import (
	"io"
	"os"
)

const (
	BootConfigFile  = "redox.conf"
	BootPlaceholder = "boot/.redox_boot"
	KernelPath      = "/boot/kernel"
	InitfsPath      = "/boot/initfs"
	OsReleasePath   = "usr/lib/os-release"
	OsReleaseLink   = "etc/os-release"
	PackageSource   = "https://static.redox-os.org/pkg"
	StartupScript   = "startup.nsh"
	Readme          = "README.txt"
)

// File is a file to be written, relative to a mount point.
type File struct {
	Path    string
	Content string
	Mode    os.FileMode
}

// Symlink is a symbolic link to be created, relative to a mount point.
type Symlink struct {
	Path   string
	Target string
}

// BootConfig is the content of the redox.conf file read by the bootloader.
type BootConfig struct {
	Kernel string
	Root   string
	Initfs string
}

// NewBootConfig returns a BootConfig for the standard kernel and initfs paths
// and the specified root reference.
func NewBootConfig(root string) BootConfig {
	return BootConfig{Kernel: KernelPath, Root: root, Initfs: InitfsPath}
}

// BootConfigPaths returns the locations of the boot configuration: one on the
// EFI partition and two on the root partition.
func BootConfigPaths(efiMountPoint, rootMountPoint string) []string {
	return bootConfigPaths(efiMountPoint, rootMountPoint)
}

// EfiFiles returns the auto-boot script and README for the EFI partition.
func EfiFiles() []File {
	return efiFiles()
}

// RootFiles returns the static system configuration for the root partition:
// hostname, OS release metadata, package source, init scripts and the /boot
// placeholder.
func RootFiles() []File {
	return rootFiles()
}

// RootSymlinks returns the symlinks for the root partition which are not
// part of the merged-usr layout.
func RootSymlinks() []Symlink {
	return []Symlink{{Path: OsReleaseLink, Target: "../" + OsReleasePath}}
}

func (c BootConfig) String() string {
	return c.string()
}

func (c BootConfig) WriteTo(writer io.Writer) (int64, error) {
	return c.writeTo(writer)
}
