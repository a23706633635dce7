package populator

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/redox-os-tools/disk-installer/installer/artifacts"
	"github.com/redox-os-tools/disk-installer/lib/errors"
	"github.com/redox-os-tools/disk-installer/lib/fsutil"
	"github.com/redox-os-tools/disk-installer/lib/log/testlogger"
	"github.com/redox-os-tools/disk-installer/lib/tools/faketools"
)

type testEnv struct {
	buildRoot string
	efi       string
	logger    *testlogger.Logger
	root      string
	runner    *faketools.Runner
}

func writeFile(t *testing.T, filename, content string) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, filename string) string {
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func newTestEnv(t *testing.T) *testEnv {
	dir := t.TempDir()
	env := &testEnv{
		buildRoot: filepath.Join(dir, "build"),
		efi:       filepath.Join(dir, "efi"),
		logger:    testlogger.New(t),
		root:      filepath.Join(dir, "root"),
		runner:    faketools.New(),
	}
	for _, dirname := range []string{env.buildRoot, env.efi, env.root} {
		if err := os.MkdirAll(dirname, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return env
}

func (env *testEnv) populator() *Populator {
	return New(Params{
		BuildRoot:      env.buildRoot,
		DiskPath:       "/dev/nvme0n1",
		EfiMountPoint:  env.efi,
		Logger:         env.logger,
		Resolver:       artifacts.NewResolver(env.buildRoot, "", artifacts.Candidates{}),
		RootMountPoint: env.root,
		Runner:         env.runner,
	})
}

func (env *testEnv) writeArtifact(t *testing.T, kind artifacts.Kind,
	content string) string {
	candidates := artifacts.DefaultCandidates()
	var pathname string
	switch kind {
	case artifacts.KindBootloader:
		pathname = candidates.Bootloader[0]
	case artifacts.KindKernel:
		pathname = candidates.Kernel[0]
	case artifacts.KindInitfs:
		pathname = candidates.Initfs[0]
	}
	pathname = filepath.Join(env.buildRoot, pathname)
	writeFile(t, pathname, content)
	return pathname
}

func TestInstallBootloader(t *testing.T) {
	env := newTestEnv(t)
	source := env.writeArtifact(t, artifacts.KindBootloader, "EFI BINARY")
	populator := env.populator()
	if err := populator.InstallBootloader(); err != nil {
		t.Fatal(err)
	}
	for _, pathname := range []string{
		filepath.Join(env.efi, "EFI", "BOOT", "BOOTX64.EFI"),
		filepath.Join(env.efi, "EFI", "redox", "redox-bootloader.efi"),
	} {
		if content := readFile(t, pathname); content != "EFI BINARY" {
			t.Errorf("%s: %q", pathname, content)
		}
	}
	calls := env.runner.CallsTo("efibootmgr")
	if len(calls) != 1 {
		t.Fatalf("efibootmgr calls: %v", calls)
	}
	args := strings.Join(calls[0].Args, " ")
	if !strings.Contains(args, "--disk /dev/nvme0n1 --part 1") {
		t.Errorf("efibootmgr args: %s", args)
	}
	if summary := populator.Summary(); summary.Bootloader != source {
		t.Errorf("bootloader: %s", summary.Bootloader)
	}
}

func TestInstallBootloaderBootEntryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.writeArtifact(t, artifacts.KindBootloader, "EFI BINARY")
	env.runner.HandleOutput("efibootmgr", faketools.Output{ExitCode: 2,
		Stderr: "EFI variables are not supported on this system."})
	populator := env.populator()
	if err := populator.InstallBootloader(); err != nil {
		t.Fatalf("boot entry failure was fatal: %s", err)
	}
	outcomes := populator.Summary().Outcomes
	if len(outcomes) != 1 {
		t.Fatalf("outcomes: %v", outcomes)
	}
	if !env.logger.Contains("registering firmware boot entry") {
		t.Error("non-fatal outcome not logged")
	}
}

func TestInstallBootloaderMissing(t *testing.T) {
	env := newTestEnv(t)
	err := env.populator().InstallBootloader()
	var verificationError *errors.VerificationError
	if !stderrors.As(err, &verificationError) {
		t.Fatalf("expected *VerificationError, got: %v", err)
	}
	if len(env.runner.CallsTo("efibootmgr")) != 0 {
		t.Error("boot entry registered without a bootloader")
	}
}

func TestInstallFilesystem(t *testing.T) {
	env := newTestEnv(t)
	if err := os.MkdirAll(filepath.Join(env.root, "bin"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(env.root, "lib"), "stale")
	stage := StagePath(env.buildRoot, "ion")
	writeFile(t, filepath.Join(stage, "bin", "ion"), "shell")
	writeFile(t, filepath.Join(stage, "usr", "lib", "libion.so"), "lib")
	writeFile(t, filepath.Join(stage, "etc", "ion", "initrc"), "nested")
	if err := os.MkdirAll(filepath.Join(stage, "bin", "subdir"),
		0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(StagePath(env.buildRoot, "base"), "usr", "bin",
		"ipcd"), "ipcd")
	populator := env.populator()
	if err := populator.InstallFilesystem(); err != nil {
		t.Fatal(err)
	}
	for _, dirname := range Directories {
		if fi, err := os.Stat(filepath.Join(env.root, dirname)); err != nil ||
			!fi.IsDir() {
			t.Errorf("missing directory: %s", dirname)
		}
	}
	for _, link := range MergedUsrLinks {
		target, err := os.Readlink(filepath.Join(env.root, link.Path))
		if err != nil {
			t.Errorf("missing symlink: %s: %s", link.Path, err)
		} else if target != link.Target {
			t.Errorf("%s -> %s, expected: %s", link.Path, target, link.Target)
		}
	}
	if content := readFile(t, filepath.Join(env.root, "etc",
		"hostname")); content != "redox" {
		t.Errorf("hostname: %q", content)
	}
	if target, err := os.Readlink(filepath.Join(env.root, "etc",
		"os-release")); err != nil || target != "../usr/lib/os-release" {
		t.Errorf("os-release link: %s, %v", target, err)
	}
	if _, err := os.Stat(filepath.Join(env.root, "boot",
		".redox_boot")); err != nil {
		t.Error("boot placeholder missing")
	}
	if content := readFile(t, filepath.Join(env.root, "usr", "bin",
		"ion")); content != "shell" {
		t.Errorf("ion: %q", content)
	}
	summary := populator.Summary()
	if summary.PayloadFiles["ion"] != 2 || summary.PayloadFiles["base"] != 1 {
		t.Errorf("payload files: %v", summary.PayloadFiles)
	}
	if summary.TotalPayloadFiles != 3 {
		t.Errorf("total payload files: %d", summary.TotalPayloadFiles)
	}
}

func TestInstallFilesystemIdempotent(t *testing.T) {
	env := newTestEnv(t)
	populator := env.populator()
	for iteration := 0; iteration < 2; iteration++ {
		if err := populator.InstallFilesystem(); err != nil {
			t.Fatalf("iteration %d: %s", iteration, err)
		}
	}
	if !env.logger.Contains("no staged payloads found") {
		t.Error("missing payloads not reported")
	}
}

func TestResolveLinks(t *testing.T) {
	tests := [][2]string{
		{"/bin", "/usr/bin"},
		{"/sbin/init", "/usr/sbin/init"},
		{"/etc", "/etc"},
		{"/binary", "/binary"},
		{"/usr/lib", "/usr/lib"},
	}
	for _, test := range tests {
		if got := resolveLinks(test[0]); got != test[1] {
			t.Errorf("resolveLinks(%s): %s, expected: %s", test[0], got, test[1])
		}
	}
}

func TestInstallKernel(t *testing.T) {
	env := newTestEnv(t)
	env.writeArtifact(t, artifacts.KindKernel, "KERNEL")
	initfs := env.writeArtifact(t, artifacts.KindInitfs,
		strings.Repeat("i", 4096))
	populator := env.populator()
	if err := populator.InstallKernel(); err != nil {
		t.Fatal(err)
	}
	if content := readFile(t, filepath.Join(env.root, "boot",
		"kernel")); content != "KERNEL" {
		t.Errorf("kernel: %q", content)
	}
	summary := populator.Summary()
	if summary.Initfs != initfs || summary.InitfsSize != 4096 {
		t.Errorf("initfs: %s, %d", summary.Initfs, summary.InitfsSize)
	}
}

func TestInstallKernelWithoutInitfs(t *testing.T) {
	env := newTestEnv(t)
	env.writeArtifact(t, artifacts.KindKernel, "KERNEL")
	populator := env.populator()
	if err := populator.InstallKernel(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(env.root, "boot",
		"initfs")); !os.IsNotExist(err) {
		t.Error("initfs installed from nowhere")
	}
}

func TestInstallKernelMissing(t *testing.T) {
	env := newTestEnv(t)
	env.writeArtifact(t, artifacts.KindInitfs, "INITFS")
	if err := env.populator().InstallKernel(); err == nil {
		t.Fatal("missing kernel not reported")
	}
}

func TestInstallKernelDetectsTruncatedInitfs(t *testing.T) {
	env := newTestEnv(t)
	env.writeArtifact(t, artifacts.KindKernel, "KERNEL")
	env.writeArtifact(t, artifacts.KindInitfs, strings.Repeat("i", 4096))
	defer func(saved func(string, string, os.FileMode) error) {
		copyFile = saved
	}(copyFile)
	copyFile = func(dest, source string, mode os.FileMode) error {
		if err := os.WriteFile(dest, []byte("truncated"), 0644); err != nil {
			return err
		}
		return nil
	}
	err := env.populator().InstallKernel()
	var verificationError *errors.VerificationError
	if !stderrors.As(err, &verificationError) {
		t.Fatalf("expected *VerificationError, got: %v", err)
	}
	if !strings.Contains(verificationError.Reason, "length mismatch") {
		t.Errorf("reason: %s", verificationError.Reason)
	}
}

func TestInstallKernelDetectsTruncatedKernel(t *testing.T) {
	env := newTestEnv(t)
	env.writeArtifact(t, artifacts.KindKernel, strings.Repeat("k", 4096))
	defer func(saved func(string, string, os.FileMode) (uint64, error)) {
		copyFileVerifyLength = saved
	}(copyFileVerifyLength)
	copyFileVerifyLength = func(dest, source string,
		mode os.FileMode) (uint64, error) {
		if err := os.WriteFile(dest, []byte("short"), 0644); err != nil {
			return 0, err
		}
		return fsutil.VerifyLength(dest, source)
	}
	err := env.populator().InstallKernel()
	var verificationError *errors.VerificationError
	if !stderrors.As(err, &verificationError) {
		t.Fatalf("expected *VerificationError, got: %v", err)
	}
	if !strings.HasSuffix(verificationError.Subject, "kernel") {
		t.Errorf("subject: %s", verificationError.Subject)
	}
}

func TestWriteBootConfig(t *testing.T) {
	env := newTestEnv(t)
	populator := env.populator()
	if err := populator.WriteBootConfig("abcd-1234"); err != nil {
		t.Fatal(err)
	}
	for _, pathname := range []string{
		filepath.Join(env.efi, "boot", "redox.conf"),
		filepath.Join(env.root, "boot", "redox.conf"),
		filepath.Join(env.root, "redox.conf"),
	} {
		content := readFile(t, pathname)
		if !strings.Contains(content, "root=abcd-1234\n") {
			t.Errorf("%s: %q", pathname, content)
		}
		if !strings.Contains(content, "kernel=/boot/kernel\n") {
			t.Errorf("%s: %q", pathname, content)
		}
	}
	if content := readFile(t, filepath.Join(env.efi,
		"startup.nsh")); !strings.Contains(content, "BOOTX64.EFI") {
		t.Errorf("startup.nsh: %q", content)
	}
	if _, err := os.Stat(filepath.Join(env.efi, "README.txt")); err != nil {
		t.Error(err)
	}
}
