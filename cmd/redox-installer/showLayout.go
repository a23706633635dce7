package main

import (
	"fmt"
	"io"
	"os"

	"github.com/redox-os-tools/disk-installer/installer/planner"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

func showLayoutSubcommand(args []string, logger log.DebugLogger) error {
	config := installer.InstallationConfig{
		EfiSizeMB:      *efiSizeMB,
		FileSystemKind: fileSystem,
	}
	if err := config.Validate(); err != nil {
		return err
	}
	return writeLayout(os.Stdout, planner.ComputeLayout(args[0], config),
		config)
}

func writeLayout(writer io.Writer, layout installer.PartitionLayout,
	config installer.InstallationConfig) error {
	fmt.Fprintf(writer, "Disk:      %s (GPT)\n", layout.DiskPath)
	fmt.Fprintf(writer, "EFI:       %s  FAT32  %dMiB-%dMiB\n",
		layout.EfiPartition, layout.EfiStartMiB, layout.EfiEndMiB)
	fmt.Fprintf(writer, "Root:      %s  %s  %dMiB-100%%\n",
		layout.RootPartition, config.FileSystemKind, layout.EfiEndMiB)
	fmt.Fprintln(writer, "Commands:")
	for _, args := range planner.PartedArgs(layout) {
		commandLine := tools.CommandLine("parted", args...)
		if _, err := fmt.Fprintln(writer, " ", commandLine); err != nil {
			return err
		}
	}
	return nil
}
