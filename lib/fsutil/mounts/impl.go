package mounts

import (
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

func getMountTable() (*MountTable, error) {
	partitions, err := disk.Partitions(true)
	if err != nil {
		return nil, err
	}
	table := &MountTable{}
	for _, partition := range partitions {
		table.Entries = append(table.Entries, &MountEntry{
			Device:     partition.Device,
			MountPoint: partition.Mountpoint,
			Type:       partition.Fstype,
			Options:    strings.Join(partition.Opts, ","),
		})
	}
	return table, nil
}

func (mt *MountTable) findEntry(path string) *MountEntry {
	path = filepath.Clean(path)
	var lastMatch *MountEntry
	var lastLength int
	for _, entry := range mt.Entries {
		length := len(entry.MountPoint)
		if !isWithin(path, entry.MountPoint) {
			continue
		}
		if lastMatch == nil || length >= lastLength {
			lastMatch = entry
			lastLength = length
		}
	}
	return lastMatch
}

func (mt *MountTable) findDevice(device string,
	includePartitions bool) []*MountEntry {
	var entries []*MountEntry
	for _, entry := range mt.Entries {
		if entry.Device == device {
			entries = append(entries, entry)
		} else if includePartitions && isPartitionOf(entry.Device, device) {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (mt *MountTable) isMountPoint(path string) bool {
	path = filepath.Clean(path)
	for _, entry := range mt.Entries {
		if entry.MountPoint == path {
			return true
		}
	}
	return false
}

func isPartitionOf(partition, device string) bool {
	suffix := strings.TrimPrefix(partition, device)
	if suffix == partition || suffix == "" {
		return false
	}
	if last := device[len(device)-1]; last >= '0' && last <= '9' {
		if suffix[0] != 'p' {
			return false
		}
		suffix = suffix[1:]
	}
	if suffix == "" {
		return false
	}
	for _, ch := range suffix {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func isWithin(path, mountPoint string) bool {
	if mountPoint == "/" {
		return strings.HasPrefix(path, "/")
	}
	return path == mountPoint || strings.HasPrefix(path, mountPoint+"/")
}
