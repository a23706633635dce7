/*
Package populator builds the installed system on the mounted partitions.

The root partition receives the directory tree, the merged-usr symlinks, the
static system configuration, the kernel and initfs, and the staged outputs of
the payload components. The EFI partition receives the bootloader, the boot
configuration and an auto-boot script.
*/
package populator

import (
	"github.com/redox-os-tools/disk-installer/installer/artifacts"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

// Directories are created on the root partition, relative to its mount point.
var Directories = []string{
	"boot",
	"usr", "usr/bin", "usr/lib", "usr/libexec", "usr/share", "usr/include",
	"etc",
	"var", "var/log", "var/lib", "var/lib/pkg",
	"tmp", "home", "root", "proc", "sys", "dev", "mnt", "opt",
}

// MergedUsrLinks are the top-level symlinks of the merged-usr layout. Link
// paths are relative to the root mount point, targets are absolute within
// the installed system.
var MergedUsrLinks = []Link{
	{Path: "bin", Target: "/usr/bin"},
	{Path: "lib", Target: "/usr/lib"},
	{Path: "include", Target: "/usr/include"},
	{Path: "sbin", Target: "/usr/sbin"},
}

// PayloadComponents are installed in this order. drivers-initfs must precede
// drivers, which ships conflicting files.
var PayloadComponents = []string{
	"uutils",
	"base",
	"userutils",
	"coreutils",
	"drivers-initfs",
	"drivers",
	"ion",
	"extrautils",
	"netutils",
}

// PayloadMappings maps subdirectories of a staged component to destinations
// on the root partition.
var PayloadMappings = []Mapping{
	{Source: "bin", Destination: "/bin"},
	{Source: "sbin", Destination: "/sbin"},
	{Source: "usr/bin", Destination: "/usr/bin"},
	{Source: "usr/sbin", Destination: "/usr/sbin"},
	{Source: "usr/lib", Destination: "/usr/lib"},
	{Source: "etc", Destination: "/etc"},
}

type Link struct {
	Path   string
	Target string
}

type Mapping struct {
	Source      string
	Destination string
}

type Params struct {
	BuildRoot      string
	DiskPath       string
	EfiMountPoint  string
	Logger         log.DebugLogger
	Resolver       *artifacts.Resolver
	RootMountPoint string
	Runner         tools.Runner
}

type Populator struct {
	params  Params
	summary Summary
}

// Summary describes what was installed.
type Summary struct {
	Bootloader        string
	Kernel            string
	Initfs            string // Empty if no initfs was found.
	InitfsSize        uint64
	PayloadFiles      map[string]uint
	TotalPayloadFiles uint
	Outcomes          []installer.NonFatalOutcome
}

func New(params Params) *Populator {
	return &Populator{
		params:  params,
		summary: Summary{PayloadFiles: make(map[string]uint)},
	}
}

// StagePath returns the staged build output directory of a payload
// component.
func StagePath(buildRoot, component string) string {
	return stagePath(buildRoot, component)
}

// InstallBootloader copies the bootloader to the removable-media and vendor
// paths on the EFI partition and registers a firmware boot entry. Failure to
// register the boot entry is not fatal.
func (p *Populator) InstallBootloader() error {
	return p.installBootloader()
}

// InstallFilesystem creates the directory tree, symlinks and static
// configuration on the root partition and installs the payload components.
func (p *Populator) InstallFilesystem() error {
	return p.installFilesystem()
}

// InstallKernel copies the kernel and, if one is found, the initfs to /boot
// on the root partition. The length of the copied initfs is verified.
func (p *Populator) InstallKernel() error {
	return p.installKernel()
}

// Summary returns what was installed so far.
func (p *Populator) Summary() Summary {
	return p.summary
}

// WriteBootConfig writes the boot configuration naming root to the EFI and
// root partitions, and the auto-boot script and README to the EFI partition.
func (p *Populator) WriteBootConfig(root string) error {
	return p.writeBootConfig(root)
}
