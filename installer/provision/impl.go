package provision

import (
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"github.com/redox-os-tools/disk-installer/installer/planner"
	"github.com/redox-os-tools/disk-installer/lib/backoffdelay"
	"github.com/redox-os-tools/disk-installer/lib/clock"
	"github.com/redox-os-tools/disk-installer/lib/constants"
	"github.com/redox-os-tools/disk-installer/lib/errors"
	"github.com/redox-os-tools/disk-installer/lib/format"
	"github.com/redox-os-tools/disk-installer/lib/fsutil"
	"github.com/redox-os-tools/disk-installer/lib/osutil"
	"github.com/redox-os-tools/disk-installer/lib/retry"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
	"github.com/siderolabs/go-blockdevice/v2/blkid"
)

func (p *Params) prepare() {
	if p.Clock == nil {
		p.Clock = clock.New()
	}
	if p.DeviceExists == nil {
		p.DeviceExists = fsutil.IsBlockDevice
	}
	if p.RedoxfsMkfs == "" {
		p.RedoxfsMkfs = constants.DefaultRedoxfsMkfs
	}
	if p.SettleTimeout <= 0 {
		p.SettleTimeout = DefaultSettleTimeout
	}
	if p.Sleeper == nil {
		p.Sleeper = backoffdelay.NewExponentialWithClock(
			50*time.Millisecond, time.Second, 1, p.Clock)
	}
	if p.Sync == nil {
		p.Sync = func() error { return osutil.SyncTimeout(time.Minute) }
	}
}

func (r *Result) bestEffort(params Params, operation string, err error) {
	if err == nil {
		return
	}
	params.Logger.Printf("Warning: %s: %s\n", operation, err)
	r.Outcomes = append(r.Outcomes, installer.NonFatalOutcome{
		Operation: operation,
		Error:     err.Error(),
	})
}

func (r *Result) sync(params Params) {
	r.bestEffort(params, "sync", params.Sync())
}

func createPartitions(layout installer.PartitionLayout,
	params Params) (*Result, error) {
	params.prepare()
	result := &Result{}
	disk := layout.DiskPath
	params.Logger.Debugf(0, "wiping signatures from: %s\n", disk)
	_, err := tools.RunChecked(params.Runner, "wipefs", "-a", disk)
	result.bestEffort(params, "wipefs "+disk, err)
	result.sync(params)
	for _, args := range planner.PartedArgs(layout) {
		if _, err := tools.RunChecked(params.Runner, "parted",
			args...); err != nil {
			return result, err
		}
	}
	result.sync(params)
	_, err = tools.RunChecked(params.Runner, "partprobe", disk)
	result.bestEffort(params, "partprobe "+disk, err)
	startTime := params.Clock.Now()
	numIterations, err := fsutil.WaitForBlockAvailable(fsutil.WaitParams{
		Clock:   params.Clock,
		Exists:  params.DeviceExists,
		Sleeper: params.Sleeper,
		Timeout: params.SettleTimeout,
	}, layout.EfiPartition, layout.RootPartition)
	if err != nil {
		if stderrors.Is(err, retry.ErrTimeout) {
			return result, errors.NewTimeoutError(
				"partitions not created: "+layout.EfiPartition+", "+
					layout.RootPartition,
				params.SettleTimeout)
		}
		return result, err
	}
	params.Logger.Debugf(0, "%s and %s available after %d checks, %s\n",
		layout.EfiPartition, layout.RootPartition, numIterations,
		format.Duration(params.Clock.Now().Sub(startTime)))
	return result, nil
}

func formatPartitions(layout installer.PartitionLayout,
	config installer.InstallationConfig, params Params) (*Result, error) {
	params.prepare()
	result := &Result{}
	params.Logger.Printf("formatting %s as FAT32\n", layout.EfiPartition)
	_, err := tools.RunChecked(params.Runner, "mkfs.vfat", "-F", "32", "-n",
		constants.EfiLabel, layout.EfiPartition)
	if err != nil {
		return result, err
	}
	if err := verifyFileSystem(params, layout.EfiPartition, "vfat"); err != nil {
		return result, err
	}
	switch config.FileSystemKind {
	case installer.FileSystemKindRedoxFS:
		identity, err := formatRedoxfs(layout.RootPartition, params, result)
		if err != nil {
			return result, err
		}
		result.VolumeIdentity = identity
	case installer.FileSystemKindExt4:
		params.Logger.Printf("formatting %s as ext4\n", layout.RootPartition)
		_, err := tools.RunChecked(params.Runner, "mkfs.ext4", "-F", "-L",
			constants.RootLabel, layout.RootPartition)
		if err != nil {
			return result, err
		}
		err = verifyFileSystem(params, layout.RootPartition, "ext4")
		if err != nil {
			return result, err
		}
	default:
		return result, errors.NewVerificationError(layout.RootPartition,
			"unsupported file-system kind: "+config.FileSystemKind.String())
	}
	return result, nil
}

func formatRedoxfs(partition string, params Params,
	result *Result) (installer.VolumeIdentity, error) {
	mkfs := params.RedoxfsMkfs
	if _, err := params.Runner.LookPath(mkfs); err != nil {
		return "", &errors.ToolLaunchError{
			Tool: mkfs,
			Args: []string{partition},
			Hint: RedoxfsMkfsHint,
			Err:  err,
		}
	}
	size, err := getPartitionSize(params.Runner, partition)
	if err != nil {
		return "", err
	}
	params.Logger.Printf("formatting %s (%s) as RedoxFS\n",
		partition, format.FormatBytes(size))
	_, err = tools.RunChecked(params.Runner, "wipefs", "-a", partition)
	result.bestEffort(params, "wipefs "+partition, err)
	_, err = tools.RunChecked(params.Runner, "dd", "if=/dev/zero",
		"of="+partition, "bs=1M", "count=10", "conv=notrunc")
	result.bestEffort(params, "zeroing start of "+partition, err)
	result.sync(params)
	output, err := tools.RunChecked(params.Runner, mkfs, partition)
	if err != nil {
		var launchError *errors.ToolLaunchError
		if stderrors.As(err, &launchError) {
			launchError.Hint = RedoxfsMkfsHint
		}
		return "", err
	}
	for _, line := range strings.Split(output.Stderr, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			params.Logger.Debugf(1, "%s: %s\n", mkfs, line)
		}
	}
	identity, err := parseFormatterOutput(mkfs, output.Stderr)
	if err != nil {
		return "", err
	}
	params.Logger.Printf("made RedoxFS on %s with volume identity: %s\n",
		partition, identity)
	result.sync(params)
	return identity, nil
}

func getPartitionSize(runner tools.Runner, partition string) (uint64, error) {
	output, err := tools.RunChecked(runner, "blockdev", "--getsize64",
		partition)
	if err != nil {
		return 0, err
	}
	size, err := strconv.ParseUint(strings.TrimSpace(output.Stdout), 10, 64)
	if err != nil {
		return 0, errors.NewParseError("blockdev", "size", output.Stdout)
	}
	if size == 0 {
		return 0, errors.NewVerificationError(partition, "size is 0")
	}
	return size, nil
}

func parseFormatterOutput(tool, output string) (installer.VolumeIdentity,
	error) {
	if !strings.Contains(output, SuccessMarker) {
		return "", errors.NewParseError(tool, "success marker", output)
	}
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, IdentityKeyword) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 1 {
			break
		}
		return installer.VolumeIdentity(fields[len(fields)-1]), nil
	}
	return "", errors.NewParseError(tool, "volume identity", output)
}

func probeFileSystem(device string) (string, error) {
	info, err := blkid.ProbePath(device, blkid.WithSkipLocking(true))
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func verifyFileSystem(params Params, device, expected string) error {
	if params.Prober == nil {
		return nil
	}
	name, err := params.Prober(device)
	if err != nil {
		return errors.NewVerificationError(device,
			"error probing file-system: "+err.Error())
	}
	if name != expected {
		return errors.NewVerificationError(device,
			"found file-system: \""+name+"\", expected: "+expected)
	}
	params.Logger.Debugf(1, "verified %s file-system on %s\n", name, device)
	return nil
}
