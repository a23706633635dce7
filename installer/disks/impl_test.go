package disks

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/redox-os-tools/disk-installer/lib/log/testlogger"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

type fakeBlock struct {
	name       string
	device     bool
	model      string
	partition  bool
	rotational string
	sectors    string
}

func makeSysfs(t *testing.T, blocks []fakeBlock) Params {
	sysfs := t.TempDir()
	for _, block := range blocks {
		dirname := filepath.Join(sysfs, "class", "block", block.name)
		if err := os.MkdirAll(dirname, 0755); err != nil {
			t.Fatal(err)
		}
		write := func(name, content string) {
			pathname := filepath.Join(dirname, name)
			if err := os.MkdirAll(filepath.Dir(pathname), 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(pathname, []byte(content),
				0644); err != nil {
				t.Fatal(err)
			}
		}
		write("size", block.sectors+"\n")
		if block.partition {
			write("partition", "1\n")
		}
		if block.device {
			if err := os.MkdirAll(filepath.Join(dirname, "device"),
				0755); err != nil {
				t.Fatal(err)
			}
			if block.model != "" {
				write("device/model", block.model+"      \n")
			}
		}
		if block.rotational != "" {
			write("queue/rotational", block.rotational+"\n")
		}
	}
	return Params{
		IsBlockDevice: func(pathname string) bool {
			return filepath.Base(pathname) != "sdz"
		},
		Logger:         testlogger.New(t),
		SysfsDirectory: sysfs,
	}
}

func TestClassify(t *testing.T) {
	ssd := func() (uint64, error) { return 0, nil }
	hdd := func() (uint64, error) { return 1, nil }
	broken := func() (uint64, error) { return 0, stderrors.New("no file") }
	tests := []struct {
		name       string
		rotational func() (uint64, error)
		expected   installer.DiskType
	}{
		{"nvme0n1", nil, installer.DiskTypeNVMe},
		{"sda", ssd, installer.DiskTypeSataSSD},
		{"sdb", hdd, installer.DiskTypeSataHDD},
		{"sdc", broken, installer.DiskTypeSataScsi},
		{"hda", nil, installer.DiskTypeIdeHDD},
		{"vda", nil, installer.DiskTypeVirtual},
		{"mmcblk0", nil, installer.DiskTypeMMC},
		{"sr0", nil, installer.DiskTypeUnknown},
	}
	for _, test := range tests {
		if got := Classify(test.name, test.rotational); got != test.expected {
			t.Errorf("%s: expected %s, got %s", test.name, test.expected, got)
		}
	}
}

func TestList(t *testing.T) {
	params := makeSysfs(t, []fakeBlock{
		{name: "sdb", device: true, model: "Samsung SSD 870",
			rotational: "0", sectors: "976773168"},
		{name: "sdb1", device: true, partition: true, sectors: "1000"},
		{name: "loop0", sectors: "2048"},
		{name: "nvme0n1", device: true, model: "WD Blue SN570",
			sectors: "1953525168"},
		{name: "sdz", device: true, sectors: "2048"},
	})
	disks, err := List(params)
	if err != nil {
		t.Fatal(err)
	}
	if len(disks) != 2 {
		t.Fatalf("expected 2 disks, got: %+v", disks)
	}
	if disks[0].DevicePath != "/dev/nvme0n1" ||
		disks[1].DevicePath != "/dev/sdb" {
		t.Errorf("unexpected order: %s, %s",
			disks[0].DevicePath, disks[1].DevicePath)
	}
	sdb := disks[1]
	if sdb.SizeBytes != 976773168*512 {
		t.Errorf("size: %d", sdb.SizeBytes)
	}
	if sdb.Size != "500.1 GB" {
		t.Errorf("human size: %s", sdb.Size)
	}
	if sdb.Model != "Samsung SSD 870" {
		t.Errorf("model: %q", sdb.Model)
	}
	if sdb.Type != installer.DiskTypeSataSSD {
		t.Errorf("type: %s", sdb.Type)
	}
}

func TestLookup(t *testing.T) {
	params := makeSysfs(t, []fakeBlock{
		{name: "vda", device: true, sectors: "41943040"},
		{name: "vda1", device: true, partition: true, sectors: "1000"},
	})
	disk, err := Lookup(params, "/dev/vda")
	if err != nil {
		t.Fatal(err)
	}
	if disk.Type != installer.DiskTypeVirtual || disk.Model != "Unknown" {
		t.Errorf("unexpected: %+v", disk)
	}
	if _, err := Lookup(params, "/dev/vda1"); err == nil {
		t.Error("partition accepted as a disk")
	}
	if _, err := Lookup(params, "/dev/vdq"); err == nil {
		t.Error("missing disk accepted")
	}
}
