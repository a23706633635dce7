package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/redox-os-tools/disk-installer/installer/pipeline"
	"github.com/redox-os-tools/disk-installer/installer/provision"
	"github.com/redox-os-tools/disk-installer/lib/constants"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

const dryRunIdentity = "dry-run"

// dryRunOutputs returns the simulated output of the programmes whose output
// is parsed. The RedoxFS formatter reports on stderr.
func dryRunOutputs(disk installer.DiskDescriptor) map[string]tools.Result {
	return map[string]tools.Result{
		"blockdev": {Stdout: fmt.Sprintf("%d\n", disk.SizeBytes)},
		filepath.Base(*redoxfsMkfs): {
			Stderr: fmt.Sprintf("%s: %s, uuid %s\n", *redoxfsMkfs,
				provision.SuccessMarker, dryRunIdentity),
		},
	}
}

func makeRunner(disk installer.DiskDescriptor,
	logger log.DebugLogger) tools.Runner {
	if *dryRun {
		return tools.NewDryRunner(logger, dryRunOutputs(disk))
	}
	return tools.New(logger)
}

// setupDryRun redirects the mount points of params into a temporary
// directory, which is returned, and disables checks which need real devices.
func setupDryRun(params *pipeline.Params) (string, error) {
	topDir, err := os.MkdirTemp("", constants.ProgramName+"-dry-run.")
	if err != nil {
		return "", err
	}
	params.EfiMountPoint = filepath.Join(topDir, "efi")
	params.RootMountPoint = filepath.Join(topDir, "root")
	params.DeviceExists = func(string) bool { return true }
	params.Prober = nil
	params.Sync = func() error { return nil }
	params.Logger.Printf("dry run: mount points under: %s\n", topDir)
	return topDir, nil
}
