package populator

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redox-os-tools/disk-installer/installer/artifacts"
	"github.com/redox-os-tools/disk-installer/installer/bootconf"
	"github.com/redox-os-tools/disk-installer/lib/constants"
	"github.com/redox-os-tools/disk-installer/lib/errors"
	"github.com/redox-os-tools/disk-installer/lib/format"
	"github.com/redox-os-tools/disk-installer/lib/fsutil"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

const stageTarget = "x86_64-unknown-redox"

var (
	copyFile             = fsutil.CopyFile
	copyFileVerifyLength = fsutil.CopyFileVerifyLength
	verifyLength         = fsutil.VerifyLength
)

func stagePath(buildRoot, component string) string {
	return filepath.Join(buildRoot, "cookbook", "recipes", "core", component,
		"target", stageTarget, "stage")
}

func (p *Populator) bestEffort(operation string, err error) {
	if err == nil {
		return
	}
	p.params.Logger.Printf("Warning: %s: %s\n", operation, err)
	p.summary.Outcomes = append(p.summary.Outcomes, installer.NonFatalOutcome{
		Operation: operation,
		Error:     err.Error(),
	})
}

func (p *Populator) efiPath(elem ...string) string {
	return filepath.Join(append([]string{p.params.EfiMountPoint}, elem...)...)
}

func (p *Populator) rootPath(elem ...string) string {
	return filepath.Join(append([]string{p.params.RootMountPoint}, elem...)...)
}

func (p *Populator) installBootloader() error {
	bootDir := p.efiPath("EFI", "BOOT")
	vendorDir := p.efiPath("EFI", "redox")
	for _, dirname := range []string{bootDir, vendorDir} {
		if err := os.MkdirAll(dirname, fsutil.DirPerms); err != nil {
			return err
		}
	}
	source, err := p.params.Resolver.Resolve(artifacts.KindBootloader)
	if err != nil {
		return err
	}
	p.params.Logger.Printf("found bootloader: %s\n", source)
	for _, dest := range []string{
		filepath.Join(bootDir, "BOOTX64.EFI"),
		filepath.Join(vendorDir, "redox-bootloader.efi"),
	} {
		if err := copyVerified(dest, source); err != nil {
			return fmt.Errorf("error copying bootloader to: %s: %w", dest, err)
		}
		p.params.Logger.Debugf(0, "copied bootloader to: %s\n", dest)
	}
	p.summary.Bootloader = source
	_, err = tools.RunChecked(p.params.Runner, "efibootmgr",
		"--create",
		"--disk", p.params.DiskPath,
		"--part", "1",
		"--label", constants.BootEntryLabel,
		"--loader", constants.BootEntryLoader)
	p.bestEffort("registering firmware boot entry", err)
	return nil
}

func (p *Populator) installFilesystem() error {
	for _, dirname := range Directories {
		if err := os.MkdirAll(p.rootPath(dirname), fsutil.DirPerms); err != nil {
			return err
		}
	}
	for _, link := range MergedUsrLinks {
		if err := p.makeSymlink(link.Path, link.Target); err != nil {
			return err
		}
	}
	if err := writeFiles(p.params.RootMountPoint,
		bootconf.RootFiles()); err != nil {
		return err
	}
	for _, link := range bootconf.RootSymlinks() {
		if err := p.makeSymlink(link.Path, link.Target); err != nil {
			return err
		}
	}
	p.params.Logger.Printf("created directory tree and configuration in %s\n",
		p.params.RootMountPoint)
	return p.installPayloads()
}

func (p *Populator) makeSymlink(linkPath, target string) error {
	pathname := p.rootPath(linkPath)
	if err := os.RemoveAll(pathname); err != nil {
		return err
	}
	if err := os.Symlink(target, pathname); err != nil {
		return fmt.Errorf("error creating symlink %s -> %s: %s",
			linkPath, target, err)
	}
	return nil
}

func (p *Populator) installPayloads() error {
	for _, component := range PayloadComponents {
		stageDir := stagePath(p.params.BuildRoot, component)
		if fi, err := os.Stat(stageDir); err != nil || !fi.IsDir() {
			p.params.Logger.Debugf(1, "no staged output for: %s\n", component)
			continue
		}
		numFiles, err := p.installStageDirectory(stageDir)
		if err != nil {
			return fmt.Errorf("error installing %s: %s", component, err)
		}
		if numFiles > 0 {
			p.params.Logger.Printf("installed %s: %d files\n",
				component, numFiles)
			p.summary.PayloadFiles[component] = numFiles
			p.summary.TotalPayloadFiles += numFiles
		}
	}
	if p.summary.TotalPayloadFiles < 1 {
		p.params.Logger.Println(
			"no staged payloads found: build the system first")
	}
	return nil
}

func (p *Populator) installStageDirectory(stageDir string) (uint, error) {
	var numFiles uint
	for _, mapping := range PayloadMappings {
		sourceDir := filepath.Join(stageDir, mapping.Source)
		entries, err := os.ReadDir(sourceDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return numFiles, err
		}
		destDir := p.rootPath(resolveLinks(mapping.Destination))
		if err := os.MkdirAll(destDir, fsutil.DirPerms); err != nil {
			return numFiles, err
		}
		for _, entry := range entries {
			source := filepath.Join(sourceDir, entry.Name())
			if !fsutil.IsRegularFile(source) {
				continue
			}
			err := copyFile(filepath.Join(destDir, entry.Name()), source, 0)
			if err != nil {
				return numFiles, err
			}
			numFiles++
		}
	}
	return numFiles, nil
}

// resolveLinks rewrites a path in the installed system so that it does not
// traverse a merged-usr symlink. The symlink targets are absolute and would
// otherwise resolve on the build host.
func resolveLinks(pathname string) string {
	for _, link := range MergedUsrLinks {
		linkPath := "/" + link.Path
		if pathname == linkPath {
			return link.Target
		}
		if strings.HasPrefix(pathname, linkPath+"/") {
			return link.Target + pathname[len(linkPath):]
		}
	}
	return pathname
}

// copyVerified copies source to dest and checks that all of it arrived.
func copyVerified(dest, source string) error {
	_, err := copyFileVerifyLength(dest, source, 0)
	if err != nil && stderrors.Is(err, fsutil.ErrorLengthMismatch) {
		return errors.NewVerificationError(dest, err.Error())
	}
	return err
}

func (p *Populator) installKernel() error {
	bootDir := p.rootPath("boot")
	if err := os.MkdirAll(bootDir, fsutil.DirPerms); err != nil {
		return err
	}
	kernel, err := p.params.Resolver.Resolve(artifacts.KindKernel)
	if err != nil {
		return err
	}
	p.params.Logger.Printf("found kernel: %s\n", kernel)
	if err := copyVerified(filepath.Join(bootDir, "kernel"), kernel); err != nil {
		return fmt.Errorf("error copying kernel: %w", err)
	}
	p.summary.Kernel = kernel
	initfs, err := p.params.Resolver.Resolve(artifacts.KindInitfs)
	if err != nil {
		p.params.Logger.Println("no initfs found, skipping")
		p.params.Logger.Debugf(0, "%s\n", err)
		return nil
	}
	p.params.Logger.Printf("found initfs: %s\n", initfs)
	dest := filepath.Join(bootDir, "initfs")
	if err := copyFile(dest, initfs, 0); err != nil {
		return fmt.Errorf("error copying initfs: %s", err)
	}
	size, err := verifyLength(dest, initfs)
	if err != nil {
		if stderrors.Is(err, fsutil.ErrorLengthMismatch) {
			return errors.NewVerificationError(dest, err.Error())
		}
		return err
	}
	p.params.Logger.Printf("copied initfs: %s\n", format.FormatBytes(size))
	p.summary.Initfs = initfs
	p.summary.InitfsSize = size
	return nil
}

func (p *Populator) writeBootConfig(root string) error {
	if err := os.MkdirAll(p.efiPath("boot"), fsutil.DirPerms); err != nil {
		return err
	}
	if err := os.MkdirAll(p.rootPath("boot"), fsutil.DirPerms); err != nil {
		return err
	}
	config := bootconf.NewBootConfig(root).String()
	for _, pathname := range bootconf.BootConfigPaths(p.params.EfiMountPoint,
		p.params.RootMountPoint) {
		err := fsutil.CopyToFile(pathname, fsutil.PublicFilePerms,
			strings.NewReader(config), 0)
		if err != nil {
			return err
		}
		p.params.Logger.Debugf(0, "wrote: %s\n", pathname)
	}
	p.params.Logger.Printf("boot configuration: root=%s\n", root)
	return writeFiles(p.params.EfiMountPoint, bootconf.EfiFiles())
}

func writeFiles(topDir string, files []bootconf.File) error {
	for _, file := range files {
		pathname := filepath.Join(topDir, file.Path)
		if err := os.MkdirAll(filepath.Dir(pathname),
			fsutil.DirPerms); err != nil {
			return err
		}
		err := fsutil.CopyToFile(pathname, file.Mode,
			strings.NewReader(file.Content), 0)
		if err != nil {
			return err
		}
	}
	return nil
}
