package artifacts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pin/tftp"
	"github.com/redox-os-tools/disk-installer/lib/errors"
	"github.com/redox-os-tools/disk-installer/lib/fsutil"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/stringutil"
)

var (
	kindToText = map[Kind]string{
		KindBootloader: "bootloader",
		KindKernel:     "kernel",
		KindInitfs:     "initfs",
	}

	stagingNames = map[Kind]string{
		KindBootloader: "bootloader.efi",
		KindKernel:     "kernel",
		KindInitfs:     "initfs.img",
	}

	// Value is true if the file is required.
	tftpFiles = map[Kind]bool{
		KindBootloader: true,
		KindKernel:     true,
		KindInitfs:     false,
	}
)

func defaultCandidates() Candidates {
	return Candidates{
		Bootloader: []string{
			"cookbook/recipes/core/bootloader/target/x86_64-unknown-redox/build/bootloader.efi",
			"cookbook/recipes/core/bootloader/target/x86_64-unknown-redox/stage/boot/bootloader.efi",
			"build/x86_64/desktop/bootloader-live.efi",
			"build/x86_64/desktop/bootloader.efi",
			"cookbook/recipes/core/bootloader/source/build/bootloader_x86_64-unknown-uefi.efi",
			"build/bootloader.efi",
		},
		Kernel: []string{
			"cookbook/recipes/core/kernel/target/x86_64-unknown-redox/build/kernel",
			"cookbook/recipes/core/kernel/target/x86_64-unknown-redox/stage/boot/kernel",
			"build/x86_64/desktop/kernel",
			"build/x86_64/desktop/harddrive/kernel",
			"cookbook/recipes/core/kernel/source/target/x86_64-unknown-redox/release/kernel",
		},
		Initfs: []string{
			"cookbook/recipes/core/base-initfs/target/x86_64-unknown-redox/build/initfs.img",
			"build/x86_64/desktop/initfs.img",
			"build/x86_64/desktop/harddrive/initfs.img",
		},
	}
}

func newResolver(buildRoot, stagingDir string,
	candidates Candidates) *Resolver {
	defaults := defaultCandidates()
	if len(candidates.Bootloader) < 1 {
		candidates.Bootloader = defaults.Bootloader
	}
	if len(candidates.Kernel) < 1 {
		candidates.Kernel = defaults.Kernel
	}
	if len(candidates.Initfs) < 1 {
		candidates.Initfs = defaults.Initfs
	}
	return &Resolver{
		buildRoot:  buildRoot,
		candidates: candidates,
		stagingDir: stagingDir,
	}
}

func (r *Resolver) join(pathname string) string {
	if filepath.IsAbs(pathname) {
		return pathname
	}
	return filepath.Join(r.buildRoot, pathname)
}

func (r *Resolver) resolve(kind Kind) (string, error) {
	searched := r.searched(kind)
	for _, pathname := range searched {
		if fsutil.IsRegularFile(pathname) {
			return pathname, nil
		}
	}
	return "", errors.NewVerificationError(kind.String(),
		"not found, searched:\n  "+strings.Join(searched, "\n  "))
}

func (r *Resolver) searched(kind Kind) []string {
	var candidates []string
	switch kind {
	case KindBootloader:
		candidates = r.candidates.Bootloader
	case KindKernel:
		candidates = r.candidates.Kernel
	case KindInitfs:
		candidates = r.candidates.Initfs
	}
	searched := make([]string, 0, len(candidates)+1)
	if r.stagingDir != "" {
		searched = append(searched,
			filepath.Join(r.join(r.stagingDir), stagingNames[kind]))
	}
	for _, candidate := range candidates {
		searched = append(searched, r.join(candidate))
	}
	searched = stringutil.Deduplicate(searched)
	return searched
}

func fetch(hostname, stagingDir string, logger log.DebugLogger) (
	[]string, error) {
	client, err := tftp.NewClient(hostname + ":69")
	if err != nil {
		return nil, err
	}
	return fetchWithReceiver(client, stagingDir, logger)
}

func fetchWithReceiver(receiver Receiver, stagingDir string,
	logger log.DebugLogger) ([]string, error) {
	if err := os.MkdirAll(stagingDir, fsutil.DirPerms); err != nil {
		return nil, err
	}
	var written []string
	for _, kind := range []Kind{KindBootloader, KindKernel, KindInitfs} {
		name := stagingNames[kind]
		logger.Debugf(1, "downloading: %s\n", name)
		wt, err := receiver.Receive(name, "octet")
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") &&
				!tftpFiles[kind] {
				logger.Debugf(2, "error receiving: %s: %s\n", name, err)
				continue
			}
			return written, fmt.Errorf("error receiving: %s: %s", name, err)
		}
		filename := filepath.Join(stagingDir, name)
		if err := receive(filename, wt); err != nil {
			return written, fmt.Errorf("error downloading: %s: %s", name, err)
		}
		logger.Debugf(2, "downloaded: %s\n", name)
		written = append(written, filename)
	}
	return written, nil
}

func receive(filename string, wt io.WriterTo) error {
	tmpFilename := filename + "~"
	file, err := os.OpenFile(tmpFilename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY,
		fsutil.PublicFilePerms)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFilename)
	if _, err := wt.WriteTo(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(tmpFilename, filename)
}

func (kind Kind) string() string {
	if text, ok := kindToText[kind]; ok {
		return text
	}
	return fmt.Sprintf("UNKNOWN Kind(%d)", kind)
}
