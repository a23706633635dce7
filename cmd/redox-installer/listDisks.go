package main

import (
	"fmt"
	"io"
	"os"

	"github.com/redox-os-tools/disk-installer/installer/disks"
	"github.com/redox-os-tools/disk-installer/lib/fsutil/mounts"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/text"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

func listDisksSubcommand(args []string, logger log.DebugLogger) error {
	if err := listDisksCmd(logger); err != nil {
		return fmt.Errorf("error listing disks: %s", err)
	}
	return nil
}

func listDisksCmd(logger log.DebugLogger) error {
	descriptors, err := disks.List(disks.Params{
		Logger:         logger,
		SysfsDirectory: *sysfsDirectory,
	})
	if err != nil {
		return err
	}
	mountTable, err := mounts.GetMountTable()
	if err != nil {
		return err
	}
	return writeDisks(os.Stdout, descriptors, mountTable)
}

func writeDisks(writer io.Writer, descriptors []installer.DiskDescriptor,
	mountTable *mounts.MountTable) error {
	if len(descriptors) < 1 {
		_, err := fmt.Fprintln(writer, "No disks found")
		return err
	}
	columnCollector := &text.ColumnCollector{}
	for _, disk := range descriptors {
		fields := []string{disk.DevicePath, disk.Size, disk.Type.String(),
			disk.Model}
		if len(mountTable.FindDevice(disk.DevicePath, true)) > 0 {
			fields = append(fields, "mounted")
		}
		columnCollector.AddFields(fields...)
	}
	return columnCollector.WriteLeftAligned(writer)
}
