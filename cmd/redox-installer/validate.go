package main

import (
	"fmt"
	"io"
	"os"

	"github.com/redox-os-tools/disk-installer/installer/disks"
	"github.com/redox-os-tools/disk-installer/installer/validate"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/text"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

func validateSubcommand(args []string, logger log.DebugLogger) error {
	if err := validateCmd(args, logger); err != nil {
		return fmt.Errorf("error validating: %s", err)
	}
	return nil
}

func validateCmd(args []string, logger log.DebugLogger) error {
	params := validate.Params{
		BuildRoot: *buildRoot,
		Config: installer.InstallationConfig{
			EfiSizeMB:      *efiSizeMB,
			FileSystemKind: fileSystem,
		},
		DryRun:        *dryRun,
		Logger:        logger,
		MinimumSize:   uint64(minimumDiskSize),
		RedoxfsDriver: *redoxfsDriver,
		RedoxfsMkfs:   *redoxfsMkfs,
		Runner:        tools.New(logger),
	}
	if len(args) > 0 {
		disk, err := disks.Lookup(disks.Params{
			Logger:         logger,
			SysfsDirectory: *sysfsDirectory,
		}, args[0])
		if err != nil {
			return err
		}
		params.DiskPath = disk.DevicePath
		params.Runner = makeRunner(*disk, logger)
	}
	report, err := validate.Validate(params)
	if report != nil {
		writeChecks(os.Stdout, report)
	}
	if err != nil {
		return fmt.Errorf("%d checks failed", len(report.Failed()))
	}
	return nil
}

func writeChecks(writer io.Writer, report *validate.Report) error {
	columnCollector := &text.ColumnCollector{}
	for _, check := range report.Checks {
		if check.Error == "" {
			columnCollector.AddFields("ok", check.Name)
		} else {
			columnCollector.AddFields("FAIL", check.Name, check.Error)
		}
	}
	return columnCollector.WriteLeftAligned(writer)
}
