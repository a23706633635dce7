package mounts

type MountEntry struct {
	Device     string
	MountPoint string
	Type       string
	Options    string
}

type MountTable struct {
	Entries []*MountEntry
}

// GetMountTable returns the mount table of the running system.
func GetMountTable() (*MountTable, error) {
	return getMountTable()
}

// FindEntry returns the entry for the mount point which contains path, or nil.
func (mt *MountTable) FindEntry(path string) *MountEntry {
	return mt.findEntry(path)
}

// FindDevice returns the entries for which device is mounted, including
// entries for partitions of device if includePartitions is true.
func (mt *MountTable) FindDevice(device string,
	includePartitions bool) []*MountEntry {
	return mt.findDevice(device, includePartitions)
}

// IsMountPoint returns true if path is exactly a mount point.
func (mt *MountTable) IsMountPoint(path string) bool {
	return mt.isMountPoint(path)
}
