package provision

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/redox-os-tools/disk-installer/installer/planner"
	"github.com/redox-os-tools/disk-installer/lib/clock"
	"github.com/redox-os-tools/disk-installer/lib/errors"
	"github.com/redox-os-tools/disk-installer/lib/log/testlogger"
	"github.com/redox-os-tools/disk-installer/lib/tools/faketools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

const mkfsOutput = "redoxfs-mkfs: created filesystem on /dev/sdX2, " +
	"reserved 1 blocks, size 1023 MB, uuid abcd-1234\n"

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func makeParams(t *testing.T, runner *faketools.Runner) (Params,
	*testlogger.Logger) {
	logger := testlogger.New(t)
	return Params{
		Clock:        clock.NewFakeClock(epoch),
		DeviceExists: func(string) bool { return true },
		Logger:       logger,
		RedoxfsMkfs:  "/opt/redoxfs/redoxfs-mkfs",
		Runner:       runner,
		Sync:         func() error { return nil },
	}, logger
}

func makeRunner() *faketools.Runner {
	runner := faketools.New()
	runner.HandleOutput("blockdev", faketools.Output{Stdout: "1073741824\n"})
	runner.HandleOutput("redoxfs-mkfs", faketools.Output{Stderr: mkfsOutput})
	return runner
}

func redoxfsConfig() installer.InstallationConfig {
	return installer.InstallationConfig{
		EfiSizeMB:      512,
		FileSystemKind: installer.FileSystemKindRedoxFS,
	}
}

func TestCreatePartitions(t *testing.T) {
	runner := makeRunner()
	runner.HandleOutput("wipefs", faketools.Output{ExitCode: 1,
		Stderr: "wipefs: probing initialization failed"})
	params, logger := makeParams(t, runner)
	layout := planner.ComputeLayout("/dev/sdX", redoxfsConfig())
	result, err := CreatePartitions(layout, params)
	if err != nil {
		t.Fatal(err)
	}
	if calls := runner.CallsTo("parted"); len(calls) != 4 {
		t.Errorf("parted called %d times, expected 4", len(calls))
	}
	if len(result.Outcomes) != 1 ||
		!strings.HasPrefix(result.Outcomes[0].Operation, "wipefs") {
		t.Errorf("unexpected outcomes: %v", result.Outcomes)
	}
	if !logger.Contains("wipefs /dev/sdX") {
		t.Error("failed wipe not logged")
	}
}

func TestCreatePartitionsPartedFailure(t *testing.T) {
	runner := makeRunner()
	runner.HandleOutput("parted", faketools.Output{ExitCode: 1,
		Stderr: "Error: Could not stat device /dev/sdX"})
	params, _ := makeParams(t, runner)
	layout := planner.ComputeLayout("/dev/sdX", redoxfsConfig())
	_, err := CreatePartitions(layout, params)
	var exitError *errors.ToolExitError
	if !stderrors.As(err, &exitError) {
		t.Fatalf("expected *ToolExitError, got: %v", err)
	}
	if calls := runner.CallsTo("parted"); len(calls) != 1 {
		t.Errorf("parted called %d times after failure", len(calls))
	}
	if calls := runner.CallsTo("partprobe"); len(calls) != 0 {
		t.Error("partprobe run after failure")
	}
}

func TestCreatePartitionsSettleTimeout(t *testing.T) {
	runner := makeRunner()
	params, _ := makeParams(t, runner)
	params.DeviceExists = func(pathname string) bool {
		return pathname == "/dev/nvme0n1p1"
	}
	layout := planner.ComputeLayout("/dev/nvme0n1", redoxfsConfig())
	_, err := CreatePartitions(layout, params)
	var timeoutError *errors.TimeoutError
	if !stderrors.As(err, &timeoutError) {
		t.Fatalf("expected *TimeoutError, got: %v", err)
	}
	if !strings.Contains(err.Error(), "partitions not created") {
		t.Errorf("unexpected message: %s", err)
	}
	if timeoutError.Timeout != DefaultSettleTimeout {
		t.Errorf("timeout: %s", timeoutError.Timeout)
	}
}

func TestCreatePartitionsSettleEventually(t *testing.T) {
	runner := makeRunner()
	params, _ := makeParams(t, runner)
	var numChecks int
	params.DeviceExists = func(string) bool {
		numChecks++
		return numChecks > 6
	}
	layout := planner.ComputeLayout("/dev/sdX", redoxfsConfig())
	if _, err := CreatePartitions(layout, params); err != nil {
		t.Fatal(err)
	}
}

func TestFormatPartitionsRedoxfs(t *testing.T) {
	runner := makeRunner()
	params, _ := makeParams(t, runner)
	layout := planner.ComputeLayout("/dev/sdX", redoxfsConfig())
	result, err := FormatPartitions(layout, redoxfsConfig(), params)
	if err != nil {
		t.Fatal(err)
	}
	if result.VolumeIdentity != "abcd-1234" {
		t.Errorf("volume identity: %s", result.VolumeIdentity)
	}
	vfatCalls := runner.CallsTo("mkfs.vfat")
	if len(vfatCalls) != 1 ||
		strings.Join(vfatCalls[0].Args, " ") != "-F 32 -n REDOX_EFI /dev/sdX1" {
		t.Errorf("unexpected mkfs.vfat calls: %v", vfatCalls)
	}
	mkfsCalls := runner.CallsTo("redoxfs-mkfs")
	if len(mkfsCalls) != 1 || mkfsCalls[0].Args[0] != "/dev/sdX2" {
		t.Errorf("unexpected redoxfs-mkfs calls: %v", mkfsCalls)
	}
	ddCalls := runner.CallsTo("dd")
	if len(ddCalls) != 1 || ddCalls[0].Args[1] != "of=/dev/sdX2" {
		t.Errorf("unexpected dd calls: %v", ddCalls)
	}
}

func TestFormatRedoxfsMissingMarker(t *testing.T) {
	runner := makeRunner()
	runner.HandleOutput("redoxfs-mkfs", faketools.Output{
		Stderr: "redoxfs-mkfs: uuid abcd-1234\n"})
	params, _ := makeParams(t, runner)
	layout := planner.ComputeLayout("/dev/sdX", redoxfsConfig())
	_, err := FormatPartitions(layout, redoxfsConfig(), params)
	var parseError *errors.ParseError
	if !stderrors.As(err, &parseError) {
		t.Fatalf("exit status 0 without marker not a *ParseError: %v", err)
	}
	if parseError.Field != "success marker" {
		t.Errorf("field: %s", parseError.Field)
	}
}

func TestFormatRedoxfsNonZeroExit(t *testing.T) {
	runner := makeRunner()
	runner.HandleOutput("redoxfs-mkfs", faketools.Output{ExitCode: 1,
		Stderr: "redoxfs-mkfs: failed to create filesystem: I/O error"})
	params, _ := makeParams(t, runner)
	layout := planner.ComputeLayout("/dev/sdX", redoxfsConfig())
	_, err := FormatPartitions(layout, redoxfsConfig(), params)
	var exitError *errors.ToolExitError
	if !stderrors.As(err, &exitError) {
		t.Fatalf("expected *ToolExitError, got: %v", err)
	}
}

func TestFormatRedoxfsMissingFormatter(t *testing.T) {
	runner := makeRunner()
	runner.SetAbsent("/opt/redoxfs/redoxfs-mkfs")
	params, _ := makeParams(t, runner)
	layout := planner.ComputeLayout("/dev/sdX", redoxfsConfig())
	_, err := FormatPartitions(layout, redoxfsConfig(), params)
	var launchError *errors.ToolLaunchError
	if !stderrors.As(err, &launchError) {
		t.Fatalf("expected *ToolLaunchError, got: %v", err)
	}
	if launchError.Hint == "" {
		t.Error("no remediation hint")
	}
	if calls := runner.CallsTo("blockdev"); len(calls) != 0 {
		t.Error("partition touched before checking for the formatter")
	}
}

func TestFormatRedoxfsZeroSize(t *testing.T) {
	runner := makeRunner()
	runner.HandleOutput("blockdev", faketools.Output{Stdout: "0\n"})
	params, _ := makeParams(t, runner)
	layout := planner.ComputeLayout("/dev/sdX", redoxfsConfig())
	_, err := FormatPartitions(layout, redoxfsConfig(), params)
	var verificationError *errors.VerificationError
	if !stderrors.As(err, &verificationError) {
		t.Fatalf("expected *VerificationError, got: %v", err)
	}
	if calls := runner.CallsTo("redoxfs-mkfs"); len(calls) != 0 {
		t.Error("formatter run on zero-sized partition")
	}
}

func TestFormatRedoxfsBadSize(t *testing.T) {
	runner := makeRunner()
	runner.HandleOutput("blockdev", faketools.Output{Stdout: "garbage\n"})
	params, _ := makeParams(t, runner)
	layout := planner.ComputeLayout("/dev/sdX", redoxfsConfig())
	_, err := FormatPartitions(layout, redoxfsConfig(), params)
	var parseError *errors.ParseError
	if !stderrors.As(err, &parseError) {
		t.Fatalf("expected *ParseError, got: %v", err)
	}
}

func TestFormatPartitionsExt4(t *testing.T) {
	runner := makeRunner()
	params, _ := makeParams(t, runner)
	probed := make(map[string]bool)
	params.Prober = func(device string) (string, error) {
		probed[device] = true
		if device == "/dev/nvme0n1p1" {
			return "vfat", nil
		}
		return "ext4", nil
	}
	config := installer.InstallationConfig{
		EfiSizeMB:      512,
		FileSystemKind: installer.FileSystemKindExt4,
	}
	layout := planner.ComputeLayout("/dev/nvme0n1", config)
	result, err := FormatPartitions(layout, config, params)
	if err != nil {
		t.Fatal(err)
	}
	if result.VolumeIdentity != "" {
		t.Errorf("ext4 produced volume identity: %s", result.VolumeIdentity)
	}
	calls := runner.CallsTo("mkfs.ext4")
	if len(calls) != 1 ||
		strings.Join(calls[0].Args, " ") != "-F -L REDOX_ROOT /dev/nvme0n1p2" {
		t.Errorf("unexpected mkfs.ext4 calls: %v", calls)
	}
	if len(runner.CallsTo("redoxfs-mkfs")) != 0 {
		t.Error("RedoxFS formatter run for ext4")
	}
	if !probed["/dev/nvme0n1p1"] || !probed["/dev/nvme0n1p2"] {
		t.Errorf("not all partitions verified: %v", probed)
	}
}

func TestFormatPartitionsProbeMismatch(t *testing.T) {
	runner := makeRunner()
	params, _ := makeParams(t, runner)
	params.Prober = func(device string) (string, error) { return "", nil }
	layout := planner.ComputeLayout("/dev/sdX", redoxfsConfig())
	_, err := FormatPartitions(layout, redoxfsConfig(), params)
	var verificationError *errors.VerificationError
	if !stderrors.As(err, &verificationError) {
		t.Fatalf("expected *VerificationError, got: %v", err)
	}
	if verificationError.Subject != "/dev/sdX1" {
		t.Errorf("subject: %s", verificationError.Subject)
	}
}

func TestParseFormatterOutput(t *testing.T) {
	identity, err := ParseFormatterOutput("redoxfs-mkfs", mkfsOutput)
	if err != nil {
		t.Fatal(err)
	}
	if identity != "abcd-1234" {
		t.Errorf("identity: %s", identity)
	}
	identity, err = ParseFormatterOutput("redoxfs-mkfs",
		"redoxfs-mkfs: created filesystem on /dev/sdb2\n"+
			"  volume uuid: 0f3c-99aa\n")
	if err != nil {
		t.Fatal(err)
	}
	if identity != "0f3c-99aa" {
		t.Errorf("identity on separate line: %s", identity)
	}
	for _, output := range []string{
		"",
		"redoxfs-mkfs: created filesystem on /dev/sdb2\n",
		"created filesystem\nUUID abcd\n",
	} {
		_, err := ParseFormatterOutput("redoxfs-mkfs", output)
		var parseError *errors.ParseError
		if !stderrors.As(err, &parseError) {
			t.Errorf("%q: expected *ParseError, got: %v", output, err)
		}
	}
}
