package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/redox-os-tools/disk-installer/lib/format"
	"github.com/redox-os-tools/disk-installer/lib/text"
)

func (r *Report) completed() bool {
	numStages := len(stages())
	if len(r.Stages) != numStages {
		return false
	}
	return r.Stages[numStages-1].Error == ""
}

func (r *Report) writeSummary(writer io.Writer) error {
	w := bufio.NewWriter(writer)
	fmt.Fprintf(w, "Run:             %s\n", r.RunID)
	fmt.Fprintf(w, "Disk:            %s (%s)\n", r.Disk.DevicePath, r.Disk.Size)
	fmt.Fprintf(w, "EFI partition:   %s (FAT32, %d MB)\n",
		r.Layout.EfiPartition, r.Config.EfiSizeMB)
	fmt.Fprintf(w, "Root partition:  %s (%s)\n",
		r.Layout.RootPartition, r.Config.FileSystemKind)
	if r.VolumeIdentity != "" {
		fmt.Fprintf(w, "Volume identity: %s\n", r.VolumeIdentity)
	}
	if r.RootReference != "" {
		fmt.Fprintf(w, "Boot root:       %s\n", r.RootReference)
	}
	if r.Installed.Bootloader != "" {
		fmt.Fprintf(w, "Bootloader:      %s\n", r.Installed.Bootloader)
	}
	if r.Installed.Kernel != "" {
		fmt.Fprintf(w, "Kernel:          %s\n", r.Installed.Kernel)
	}
	if r.Installed.Initfs != "" {
		fmt.Fprintf(w, "Initfs:          %s (%s)\n", r.Installed.Initfs,
			format.FormatBytes(r.Installed.InitfsSize))
	}
	if len(r.Installed.PayloadFiles) > 0 {
		components := make([]string, 0, len(r.Installed.PayloadFiles))
		for component := range r.Installed.PayloadFiles {
			components = append(components, component)
		}
		sort.Strings(components)
		fmt.Fprintf(w, "Payload files:   %d\n", r.Installed.TotalPayloadFiles)
		for _, component := range components {
			fmt.Fprintf(w, "  %-15s %d\n",
				component, r.Installed.PayloadFiles[component])
		}
	}
	if len(r.Stages) > 0 {
		fmt.Fprintln(w, "Stages:")
		columnCollector := &text.ColumnCollector{}
		for _, result := range r.Stages {
			status := "ok"
			if result.Error != "" {
				status = "FAILED"
			}
			columnCollector.AddFields(" ", result.Stage.String(), status,
				format.Duration(result.Duration))
		}
		if err := columnCollector.WriteLeftAligned(w); err != nil {
			return err
		}
	}
	if len(r.MountedPoints) > 0 {
		fmt.Fprintln(w, "Still mounted:")
		for _, mountPoint := range r.MountedPoints {
			fmt.Fprintf(w, "  %s\n", mountPoint)
		}
	}
	if len(r.Outcomes) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, outcome := range r.Outcomes {
			fmt.Fprintf(w, "  %s\n", outcome)
		}
	}
	return w.Flush()
}
