package disks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/redox-os-tools/disk-installer/lib/format"
	"github.com/redox-os-tools/disk-installer/lib/fsutil"
	"github.com/redox-os-tools/disk-installer/lib/verstr"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

const unknownModel = "Unknown"

func (p *Params) prepare() {
	if p.DevDirectory == "" {
		p.DevDirectory = "/dev"
	}
	if p.IsBlockDevice == nil {
		p.IsBlockDevice = fsutil.IsBlockDevice
	}
	if p.SysfsDirectory == "" {
		p.SysfsDirectory = "/sys"
	}
}

func classify(name string,
	rotational func() (uint64, error)) installer.DiskType {
	switch {
	case strings.HasPrefix(name, "nvme"):
		return installer.DiskTypeNVMe
	case strings.HasPrefix(name, "sd"):
		if rotational == nil {
			return installer.DiskTypeSataScsi
		}
		if value, err := rotational(); err != nil {
			return installer.DiskTypeSataScsi
		} else if value == 0 {
			return installer.DiskTypeSataSSD
		}
		return installer.DiskTypeSataHDD
	case strings.HasPrefix(name, "hd"):
		return installer.DiskTypeIdeHDD
	case strings.HasPrefix(name, "vd"), strings.HasPrefix(name, "xvd"):
		return installer.DiskTypeVirtual
	case strings.HasPrefix(name, "mmcblk"):
		return installer.DiskTypeMMC
	}
	return installer.DiskTypeUnknown
}

func list(params Params) ([]installer.DiskDescriptor, error) {
	params.prepare()
	basedir := filepath.Join(params.SysfsDirectory, "class", "block")
	file, err := os.Open(basedir)
	if err != nil {
		return nil, err
	}
	names, err := file.Readdirnames(-1)
	file.Close()
	if err != nil {
		return nil, err
	}
	var disks []installer.DiskDescriptor
	for _, name := range names {
		disk, err := readDisk(params, name)
		if err != nil {
			return nil, err
		}
		if disk != nil {
			disks = append(disks, *disk)
		}
	}
	sort.Slice(disks, func(left, right int) bool {
		return verstr.Less(disks[left].DevicePath, disks[right].DevicePath)
	})
	return disks, nil
}

func lookup(params Params, devicePath string) (
	*installer.DiskDescriptor, error) {
	params.prepare()
	disk, err := readDisk(params, filepath.Base(devicePath))
	if err != nil {
		return nil, err
	}
	if disk == nil {
		return nil, fmt.Errorf("%s is not a whole disk", devicePath)
	}
	return disk, nil
}

// readDisk returns nil if name is not a usable whole disk.
func readDisk(params Params, name string) (*installer.DiskDescriptor, error) {
	dirname := filepath.Join(params.SysfsDirectory, "class", "block", name)
	if _, err := os.Stat(dirname); err != nil {
		if os.IsNotExist(err) {
			params.Logger.Debugf(2, "no such block device: %s\n", name)
			return nil, nil
		}
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(dirname, "partition")); err == nil {
		params.Logger.Debugf(2, "skipping partition: %s\n", name)
		return nil, nil
	}
	if _, err := os.Stat(filepath.Join(dirname, "device")); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		params.Logger.Debugf(2, "skipping non-device: %s\n", name)
		return nil, nil
	}
	devpath := filepath.Join(params.DevDirectory, name)
	if !params.IsBlockDevice(devpath) {
		params.Logger.Debugf(2, "skipping inaccessible device: %s\n", devpath)
		return nil, nil
	}
	sectors, err := readInt(filepath.Join(dirname, "size"))
	if err != nil {
		return nil, err
	}
	size := sectors << 9
	model := unknownModel
	if data, err := os.ReadFile(filepath.Join(dirname, "device",
		"model")); err == nil {
		if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
			model = trimmed
		}
	}
	diskType := classify(name, func() (uint64, error) {
		return readInt(filepath.Join(dirname, "queue", "rotational"))
	})
	params.Logger.Debugf(1, "found: %s %s (%s) %s\n",
		name, format.FormatDecimalBytes(size), diskType, model)
	return &installer.DiskDescriptor{
		DevicePath: devpath,
		Model:      model,
		Size:       format.FormatDecimalBytes(size),
		SizeBytes:  size,
		Type:       diskType,
	}, nil
}

func readInt(filename string) (uint64, error) {
	if file, err := os.Open(filename); err != nil {
		return 0, err
	} else {
		defer file.Close()
		var value uint64
		if nVal, err := fmt.Fscanf(file, "%d\n", &value); err != nil {
			return 0, err
		} else if nVal != 1 {
			return 0, fmt.Errorf("read %d values, expected 1", nVal)
		} else {
			return value, nil
		}
	}
}
