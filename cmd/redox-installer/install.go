package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/redox-os-tools/disk-installer/installer/disks"
	"github.com/redox-os-tools/disk-installer/installer/pipeline"
	"github.com/redox-os-tools/disk-installer/installer/provision"
	"github.com/redox-os-tools/disk-installer/installer/validate"
	"github.com/redox-os-tools/disk-installer/lib/constants"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/lib/version"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

func installSubcommand(args []string, logger log.DebugLogger) error {
	if err := installCmd(args, logger); err != nil {
		return fmt.Errorf("error installing: %s", err)
	}
	return nil
}

func installCmd(args []string, logger log.DebugLogger) error {
	logger.Debugf(0, "%s %s\n", constants.ProgramName, version.Get())
	interactive := isInteractive()
	prompts := newPrompter(os.Stdin, os.Stdout)
	diskParams := disks.Params{
		Logger:         logger,
		SysfsDirectory: *sysfsDirectory,
	}
	var diskPath string
	if len(args) > 0 {
		diskPath = args[0]
	} else if !interactive {
		return errors.New("no disk specified")
	} else {
		descriptors, err := disks.List(diskParams)
		if err != nil {
			return err
		}
		if diskPath, err = prompts.selectDisk(descriptors); err != nil {
			return err
		}
	}
	disk, err := disks.Lookup(diskParams, diskPath)
	if err != nil {
		return err
	}
	config, err := makeConfig(interactive, prompts)
	if err != nil {
		return err
	}
	runner := makeRunner(*disk, logger)
	validation, err := validate.Validate(validate.Params{
		BuildRoot:     *buildRoot,
		Config:        config,
		DiskPath:      disk.DevicePath,
		DryRun:        *dryRun,
		Logger:        logger,
		MinimumSize:   uint64(minimumDiskSize),
		RedoxfsDriver: *redoxfsDriver,
		RedoxfsMkfs:   *redoxfsMkfs,
		Runner:        runner,
	})
	if err != nil {
		return fmt.Errorf("%d checks failed", len(validation.Failed()))
	}
	if *confirm != confirmationText {
		if !interactive {
			return fmt.Errorf(
				"refusing to erase %s: not a terminal and -confirm is not %s",
				disk.DevicePath, confirmationText)
		}
		if err := prompts.confirm(*disk, config); err != nil {
			return err
		}
	}
	params := makePipelineParams(*disk, config, runner, logger)
	if *dryRun {
		topDir, err := setupDryRun(&params)
		if err != nil {
			return err
		}
		defer os.RemoveAll(topDir)
	}
	report, err := pipeline.Run(params)
	setLastReport(report)
	if err != nil {
		report.WriteSummary(os.Stderr)
		return err
	}
	return report.WriteSummary(os.Stdout)
}

func makePipelineParams(disk installer.DiskDescriptor,
	config installer.InstallationConfig, runner tools.Runner,
	logger log.DebugLogger) pipeline.Params {
	params := pipeline.Params{
		BuildRoot:          *buildRoot,
		Config:             config,
		Disk:               disk,
		DriverPath:         *redoxfsDriver,
		DriverReadyTimeout: *driverReadyTimeout,
		EfiMountPoint:      *efiMountPoint,
		Logger:             logger,
		Prober:             provision.ProbeFileSystem,
		RedoxfsMkfs:        *redoxfsMkfs,
		Resolver:           newResolver(),
		RootMountPoint:     *rootMountPoint,
		Runner:             runner,
		SettleTimeout:      *partitionSettleTimeout,
	}
	if logArchive != nil {
		params.LogArchive = logArchive
	}
	return params
}

func makeConfig(interactive bool,
	prompts *prompter) (installer.InstallationConfig, error) {
	config := installer.InstallationConfig{
		EfiSizeMB:      *efiSizeMB,
		FileSystemKind: fileSystem,
	}
	if !interactive {
		return config, nil
	}
	if !isSet("efiSizeMB") {
		size, err := prompts.efiSize()
		if err != nil {
			return config, err
		}
		config.EfiSizeMB = size
	}
	if !isSet("fileSystem") {
		kind, err := prompts.fileSystem()
		if err != nil {
			return config, err
		}
		config.FileSystemKind = kind
	}
	return config, nil
}
