package artifacts

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/redox-os-tools/disk-installer/lib/errors"
	"github.com/redox-os-tools/disk-installer/lib/log/testlogger"
)

type fakeReceiver map[string]string

func (r fakeReceiver) Receive(filename, mode string) (io.WriterTo, error) {
	if mode != "octet" {
		return nil, stderrors.New("bad mode: " + mode)
	}
	if content, ok := r[filename]; ok {
		return bytes.NewBufferString(content), nil
	}
	return nil, stderrors.New("code: 1, message: File does not exist")
}

func writeFile(t *testing.T, filename, content string) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveFirstExisting(t *testing.T) {
	buildRoot := t.TempDir()
	candidates := DefaultCandidates()
	writeFile(t, filepath.Join(buildRoot, candidates.Kernel[3]), "late")
	writeFile(t, filepath.Join(buildRoot, candidates.Kernel[1]), "early")
	resolver := NewResolver(buildRoot, "", Candidates{})
	pathname, err := resolver.Resolve(KindKernel)
	if err != nil {
		t.Fatal(err)
	}
	if expected := filepath.Join(buildRoot,
		candidates.Kernel[1]); pathname != expected {
		t.Errorf("expected: %s, got: %s", expected, pathname)
	}
}

func TestResolveStagingFirst(t *testing.T) {
	buildRoot := t.TempDir()
	writeFile(t, filepath.Join(buildRoot, "build/bootloader.efi"), "built")
	writeFile(t, filepath.Join(buildRoot, "staging", "bootloader.efi"),
		"fetched")
	resolver := NewResolver(buildRoot, "staging", Candidates{})
	pathname, err := resolver.Resolve(KindBootloader)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(filepath.Dir(pathname)) != "staging" {
		t.Errorf("staging directory not preferred: %s", pathname)
	}
}

func TestResolveIgnoresDirectories(t *testing.T) {
	buildRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(buildRoot, "kernel"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(buildRoot, "kernel.bin"), "kernel")
	resolver := NewResolver(buildRoot, "",
		Candidates{Kernel: []string{"kernel", "kernel.bin"}})
	pathname, err := resolver.Resolve(KindKernel)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(pathname) != "kernel.bin" {
		t.Errorf("unexpected: %s", pathname)
	}
}

func TestResolveMissing(t *testing.T) {
	resolver := NewResolver(t.TempDir(), "staging", Candidates{})
	_, err := resolver.Resolve(KindInitfs)
	var verificationError *errors.VerificationError
	if !stderrors.As(err, &verificationError) {
		t.Fatalf("expected *VerificationError, got: %v", err)
	}
	if verificationError.Subject != "initfs" {
		t.Errorf("subject: %s", verificationError.Subject)
	}
	if num := len(resolver.Searched(KindInitfs)); num != 4 {
		t.Errorf("expected 4 searched locations, got: %d", num)
	}
}

func TestSearchedWithoutDuplicates(t *testing.T) {
	resolver := NewResolver("/build", "staging", Candidates{
		Kernel: []string{"staging/kernel", "build/kernel", "/build/build/kernel"},
	})
	searched := resolver.Searched(KindKernel)
	if len(searched) != 2 || searched[0] != "/build/staging/kernel" ||
		searched[1] != "/build/build/kernel" {
		t.Errorf("searched: %v", searched)
	}
}

func TestFetch(t *testing.T) {
	stagingDir := filepath.Join(t.TempDir(), "staging")
	receiver := fakeReceiver{
		"bootloader.efi": "EFI",
		"kernel":         "KERNEL",
	}
	written, err := FetchWithReceiver(receiver, stagingDir, testlogger.New(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 files, got: %v", written)
	}
	data, err := os.ReadFile(filepath.Join(stagingDir, "kernel"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "KERNEL" {
		t.Errorf("kernel content: %q", data)
	}
	resolver := NewResolver(t.TempDir(), stagingDir, Candidates{})
	if _, err := resolver.Resolve(KindBootloader); err != nil {
		t.Errorf("fetched bootloader not resolved: %s", err)
	}
}

func TestFetchMissingRequired(t *testing.T) {
	stagingDir := t.TempDir()
	receiver := fakeReceiver{"bootloader.efi": "EFI"}
	_, err := FetchWithReceiver(receiver, stagingDir, testlogger.New(t))
	if err == nil {
		t.Fatal("missing kernel not reported")
	}
	if _, err := os.Stat(filepath.Join(stagingDir, "kernel~")); err == nil {
		t.Error("temporary file left behind")
	}
}
