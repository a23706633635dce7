package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/redox-os-tools/disk-installer/proto/installer"
	"golang.org/x/term"
)

const confirmationText = "YES"

type prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newPrompter(reader io.Reader, writer io.Writer) *prompter {
	return &prompter{reader: bufio.NewReader(reader), writer: writer}
}

func (p *prompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.writer, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) selectDisk(
	descriptors []installer.DiskDescriptor) (string, error) {
	if len(descriptors) < 1 {
		return "", errors.New("no disks found")
	}
	fmt.Fprintln(p.writer, "Available disks:")
	for index, disk := range descriptors {
		fmt.Fprintf(p.writer, "  %d. %-16s %-10s %-12s %s\n",
			index+1, disk.DevicePath, disk.Size, disk.Type, disk.Model)
	}
	line, err := p.readLine(
		fmt.Sprintf("Select disk (1-%d): ", len(descriptors)))
	if err != nil {
		return "", err
	}
	number, err := strconv.ParseUint(line, 10, 32)
	if err != nil || number < 1 || number > uint64(len(descriptors)) {
		return "", fmt.Errorf("invalid disk selection: \"%s\"", line)
	}
	return descriptors[number-1].DevicePath, nil
}

func (p *prompter) efiSize() (uint, error) {
	line, err := p.readLine(fmt.Sprintf("EFI partition size in MB [%d]: ",
		installer.DefaultEfiSizeMB))
	if err != nil {
		return 0, err
	}
	if line == "" {
		return installer.DefaultEfiSizeMB, nil
	}
	size, err := strconv.ParseUint(line, 10, 32)
	if err != nil || size < installer.MinimumEfiSizeMB {
		fmt.Fprintf(p.writer, "Invalid size (minimum: %d), using %d MB\n",
			installer.MinimumEfiSizeMB, installer.DefaultEfiSizeMB)
		return installer.DefaultEfiSizeMB, nil
	}
	return uint(size), nil
}

func (p *prompter) fileSystem() (installer.FileSystemKind, error) {
	line, err := p.readLine(fmt.Sprintf(
		"Root file-system (%s, %s) [%s]: ",
		installer.FileSystemKind(installer.FileSystemKindRedoxFS),
		installer.FileSystemKind(installer.FileSystemKindExt4),
		installer.FileSystemKind(installer.FileSystemKindRedoxFS)))
	if err != nil {
		return 0, err
	}
	var kind installer.FileSystemKind
	if line == "" {
		return installer.FileSystemKindRedoxFS, nil
	}
	if err := kind.Set(strings.ToLower(line)); err != nil {
		fmt.Fprintf(p.writer, "Unknown file-system: \"%s\", using %s\n",
			line, installer.FileSystemKind(installer.FileSystemKindRedoxFS))
		return installer.FileSystemKindRedoxFS, nil
	}
	return kind, nil
}

func (p *prompter) confirm(disk installer.DiskDescriptor,
	config installer.InstallationConfig) error {
	fmt.Fprintf(p.writer, "\nWARNING: ALL DATA ON %s (%s, %s) WILL BE ERASED\n",
		disk.DevicePath, disk.Model, disk.Size)
	fmt.Fprintf(p.writer, "EFI partition: %d MB, root file-system: %s\n",
		config.EfiSizeMB, config.FileSystemKind)
	line, err := p.readLine(
		fmt.Sprintf("Type %s to continue: ", confirmationText))
	if err != nil {
		return err
	}
	if line != confirmationText {
		return errors.New("installation cancelled")
	}
	return nil
}
