package bootconf

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestBootConfig(t *testing.T) {
	config := NewBootConfig("abcd-1234")
	text := config.String()
	for _, line := range []string{
		"kernel=/boot/kernel",
		"root=abcd-1234",
		"initfs=/boot/initfs",
	} {
		if !strings.Contains(text, line+"\n") {
			t.Errorf("missing line %q in:\n%s", line, text)
		}
	}
	buffer := &bytes.Buffer{}
	nWritten, err := config.WriteTo(buffer)
	if err != nil {
		t.Fatal(err)
	}
	if nWritten != int64(len(text)) || buffer.String() != text {
		t.Errorf("WriteTo differs from String: %q", buffer.String())
	}
}

func TestBootConfigPaths(t *testing.T) {
	paths := BootConfigPaths("/mnt/efi", "/mnt/root")
	expected := []string{
		"/mnt/efi/boot/redox.conf",
		"/mnt/root/boot/redox.conf",
		"/mnt/root/redox.conf",
	}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got: %v", len(expected), paths)
	}
	for index, path := range paths {
		if path != expected[index] {
			t.Errorf("path %d: expected %s, got %s",
				index, expected[index], path)
		}
	}
}

func TestRootFiles(t *testing.T) {
	seen := make(map[string]string)
	for _, file := range RootFiles() {
		if filepath.IsAbs(file.Path) {
			t.Errorf("absolute path: %s", file.Path)
		}
		if file.Mode == 0 {
			t.Errorf("no mode for: %s", file.Path)
		}
		seen[file.Path] = file.Content
	}
	if seen["etc/hostname"] != "redox" {
		t.Errorf("hostname: %q", seen["etc/hostname"])
	}
	if seen["etc/pkg.d/50_redox"] != PackageSource {
		t.Errorf("package source: %q", seen["etc/pkg.d/50_redox"])
	}
	if !strings.Contains(seen["usr/lib/init.d/00_drivers"], "pcid-spawner") {
		t.Error("drivers init script does not start pcid-spawner")
	}
	if _, ok := seen[BootPlaceholder]; !ok {
		t.Error("missing boot placeholder")
	}
}

func TestEfiFiles(t *testing.T) {
	for _, file := range EfiFiles() {
		if file.Path == StartupScript &&
			strings.TrimSpace(file.Content) != `\EFI\BOOT\BOOTX64.EFI` {
			t.Errorf("startup script: %q", file.Content)
		}
	}
}
