package bootconf

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/redox-os-tools/disk-installer/lib/constants"
	"github.com/redox-os-tools/disk-installer/lib/fsutil"
)

const (
	hostname = "redox"

	osRelease = `PRETTY_NAME="Redox OS 0.9.0"
NAME="Redox OS"
VERSION_ID="0.9.0"
VERSION="0.9.0"
ID="redox-os"

HOME_URL="https://redox-os.org/"
DOCUMENTATION_URL="https://redox-os.org/docs/"
SUPPORT_URL="https://redox-os.org/community/"
`

	initBase = `# clear and recreate tmpdir with 0o1777 permission
/usr/bin/rm -r /tmp
/usr/bin/mkdir -m a=rwxt /tmp

/usr/bin/ipcd
/usr/bin/ptyd
/usr/bin/sudo --daemon
`

	initDrivers = "/usr/bin/pcid-spawner /etc/pcid.d/\n"

	bootPlaceholder = "Redox OS Boot Directory\nCreated by " +
		constants.ProgramName + "\n"

	startupScript = `\EFI\BOOT\BOOTX64.EFI` + "\n"

	readme = `Redox OS
========

This disk contains an installation of Redox OS.

EFI partition:
/EFI/BOOT/BOOTX64.EFI           UEFI bootloader (removable media path)
/EFI/redox/redox-bootloader.efi UEFI bootloader (boot entry path)
/boot/redox.conf                boot configuration
/startup.nsh                    UEFI shell auto-boot script

Root partition:
/boot/kernel                    kernel
/boot/initfs                    initial filesystem (if installed)
/boot/redox.conf                boot configuration

To boot: enable UEFI in the firmware settings and select this disk as the
boot device.

Documentation: https://doc.redox-os.org
Website: https://www.redox-os.org
`
)

func bootConfigPaths(efiMountPoint, rootMountPoint string) []string {
	return []string{
		filepath.Join(efiMountPoint, "boot", BootConfigFile),
		filepath.Join(rootMountPoint, "boot", BootConfigFile),
		filepath.Join(rootMountPoint, BootConfigFile),
	}
}

func efiFiles() []File {
	return []File{
		{Path: StartupScript, Content: startupScript,
			Mode: fsutil.PublicFilePerms},
		{Path: Readme, Content: readme, Mode: fsutil.PublicFilePerms},
	}
}

func rootFiles() []File {
	return []File{
		{Path: "etc/hostname", Content: hostname,
			Mode: fsutil.PublicFilePerms},
		{Path: OsReleasePath, Content: osRelease,
			Mode: fsutil.PublicFilePerms},
		{Path: "etc/pkg.d/50_redox", Content: PackageSource,
			Mode: fsutil.PublicFilePerms},
		{Path: "usr/lib/init.d/00_base", Content: initBase,
			Mode: fsutil.PublicFilePerms},
		{Path: "usr/lib/init.d/00_drivers", Content: initDrivers,
			Mode: fsutil.PublicFilePerms},
		{Path: BootPlaceholder, Content: bootPlaceholder,
			Mode: fsutil.PublicFilePerms},
	}
}

func (c BootConfig) string() string {
	builder := &strings.Builder{}
	c.writeTo(builder)
	return builder.String()
}

func (c BootConfig) writeTo(writer io.Writer) (int64, error) {
	nWritten, err := fmt.Fprintf(writer,
		"# Redox OS Boot Configuration\nkernel=%s\nroot=%s\ninitfs=%s\n",
		c.Kernel, c.Root, c.Initfs)
	return int64(nWritten), err
}
