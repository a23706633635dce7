package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileKeepsMode(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	if err := os.WriteFile(source, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "dest")
	if err := CopyFile(dest, source, 0); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(dest); err != nil {
		t.Fatal(err)
	} else if fi.Mode().Perm() != 0755 {
		t.Errorf("mode: %s, expected: 0755", fi.Mode().Perm())
	}
	if _, err := os.Stat(dest + "~"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestCopyFileVerifyLength(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "initfs")
	data := make([]byte, 70000)
	for index := range data {
		data[index] = byte(index)
	}
	if err := os.WriteFile(source, data, PublicFilePerms); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "copy")
	nCopied, err := CopyFileVerifyLength(dest, source, PublicFilePerms)
	if err != nil {
		t.Fatal(err)
	}
	if nCopied != uint64(len(data)) {
		t.Errorf("copied: %d != %d", nCopied, len(data))
	}
}

func TestVerifyLengthDetectsTruncation(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "initfs")
	if err := os.WriteFile(source, []byte("0123456789"),
		PublicFilePerms); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "copy")
	if err := CopyFile(dest, source, 0); err != nil {
		t.Fatal(err)
	}
	if err := os.Truncate(dest, 4); err != nil {
		t.Fatal(err)
	}
	destLength, err := VerifyLength(dest, source)
	if !errors.Is(err, ErrorLengthMismatch) {
		t.Fatalf("expected ErrorLengthMismatch, got: %v", err)
	}
	if destLength != 4 {
		t.Errorf("destination length: %d", destLength)
	}
}

func TestCopyFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := CopyFileVerifyLength(filepath.Join(dir, "dest"), dir, 0)
	if err == nil {
		t.Fatal("copying a directory did not fail")
	}
	if errors.Is(err, ErrorLengthMismatch) {
		t.Error("unexpected length mismatch")
	}
}
