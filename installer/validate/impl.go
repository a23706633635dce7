package validate

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redox-os-tools/disk-installer/installer/provision"
	"github.com/redox-os-tools/disk-installer/lib/constants"
	"github.com/redox-os-tools/disk-installer/lib/errors"
	"github.com/redox-os-tools/disk-installer/lib/format"
	"github.com/redox-os-tools/disk-installer/lib/fsutil"
	"github.com/redox-os-tools/disk-installer/lib/osutil"
)

func (p *Params) prepare() {
	if p.IsBlockDevice == nil {
		p.IsBlockDevice = fsutil.IsBlockDevice
	}
	if p.IsPrivileged == nil {
		p.IsPrivileged = osutil.IsPrivileged
	}
	if p.MinimumSize == 0 {
		p.MinimumSize = constants.MinimumDiskSize
	}
	if p.RedoxfsDriver == "" {
		p.RedoxfsDriver = constants.DefaultRedoxfsDriver
	}
	if p.RedoxfsMkfs == "" {
		p.RedoxfsMkfs = constants.DefaultRedoxfsMkfs
	}
}

func validate(params Params) (*Report, error) {
	params.prepare()
	report := &Report{}
	var errs []error
	check := func(name string, err error) {
		result := Check{Name: name}
		if err != nil {
			result.Error = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			params.Logger.Printf("check failed: %s: %s\n", name, err)
		} else {
			params.Logger.Debugf(0, "check passed: %s\n", name)
		}
		report.Checks = append(report.Checks, result)
	}
	if !params.DryRun {
		var err error
		if !params.IsPrivileged() {
			err = stderrors.New("must run as root, or use -dryRun")
		}
		check("privileges", err)
	}
	check("configuration", params.Config.Validate())
	for _, tool := range constants.RequiredTools {
		_, err := params.Runner.LookPath(tool)
		check("tool "+tool, err)
	}
	for _, dirname := range BuildDirectories {
		check("build output "+dirname,
			checkDirectory(filepath.Join(params.BuildRoot, dirname)))
	}
	if params.Config.FileSystemKind.IsCustom() {
		for _, tool := range []string{params.RedoxfsMkfs,
			params.RedoxfsDriver} {
			if _, err := params.Runner.LookPath(tool); err != nil {
				launchError := errors.NewToolLaunchError(tool, nil, err)
				launchError.Hint = provision.RedoxfsMkfsHint
				check("tool "+tool, launchError)
			} else {
				check("tool "+tool, nil)
			}
		}
	}
	if params.DiskPath != "" {
		var err error
		if !params.IsBlockDevice(params.DiskPath) {
			err = errors.NewVerificationError(params.DiskPath,
				"does not exist or is not a block device")
		}
		check("disk "+params.DiskPath, err)
		if err == nil {
			check("disk size", checkDiskSize(params))
		}
	}
	if len(errs) > 0 {
		return report, fmt.Errorf("%d of %d checks failed:\n%w",
			len(errs), len(report.Checks), stderrors.Join(errs...))
	}
	return report, nil
}

func checkDirectory(dirname string) error {
	fi, err := os.Stat(dirname)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dirname)
	}
	return nil
}

func checkDiskSize(params Params) error {
	size, err := provision.DeviceSize(params.Runner, params.DiskPath)
	if err != nil {
		return err
	}
	if size < params.MinimumSize {
		return errors.NewVerificationError(params.DiskPath,
			fmt.Sprintf("too small: %s, minimum: %s",
				format.FormatBytes(size),
				format.FormatBytes(params.MinimumSize)))
	}
	params.Logger.Debugf(0, "%s: %s\n", params.DiskPath,
		format.FormatBytes(size))
	return nil
}

func (r *Report) failed() []Check {
	var failed []Check
	for _, check := range r.Checks {
		if check.Error != "" {
			failed = append(failed, check)
		}
	}
	return failed
}
