package mounter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redox-os-tools/disk-installer/lib/backoffdelay"
	"github.com/redox-os-tools/disk-installer/lib/clock"
	"github.com/redox-os-tools/disk-installer/lib/constants"
	"github.com/redox-os-tools/disk-installer/lib/errors"
	"github.com/redox-os-tools/disk-installer/lib/format"
	"github.com/redox-os-tools/disk-installer/lib/fsutil"
	"github.com/redox-os-tools/disk-installer/lib/fsutil/mounts"
	"github.com/redox-os-tools/disk-installer/lib/osutil"
	"github.com/redox-os-tools/disk-installer/lib/retry"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

const writeProbeName = "test_mount"

func (p *Params) prepare() {
	if p.Clock == nil {
		p.Clock = clock.New()
	}
	if p.DriverPath == "" {
		p.DriverPath = constants.DefaultRedoxfsDriver
	}
	if p.EfiMountPoint == "" {
		p.EfiMountPoint = constants.DefaultEfiMountPoint
	}
	if p.ExitTimeout <= 0 {
		p.ExitTimeout = DefaultExitTimeout
	}
	if p.MountTable == nil {
		p.MountTable = mounts.GetMountTable
	}
	if p.ReadyTimeout <= 0 {
		p.ReadyTimeout = DefaultReadyTimeout
	}
	if p.RootMountPoint == "" {
		p.RootMountPoint = constants.DefaultRootMountPoint
	}
	if p.Sleeper == nil {
		p.Sleeper = backoffdelay.NewExponentialWithClock(
			100*time.Millisecond, time.Second, 1, p.Clock)
	}
	if p.Sync == nil {
		p.Sync = func() error { return osutil.SyncTimeout(time.Minute) }
	}
}

func mountAll(layout installer.PartitionLayout,
	params Params) (*MountState, error) {
	params.prepare()
	state := &MountState{
		EfiMountPoint:  params.EfiMountPoint,
		RootMountPoint: params.RootMountPoint,
	}
	for _, dirname := range []string{params.EfiMountPoint,
		params.RootMountPoint} {
		if err := os.MkdirAll(dirname, fsutil.DirPerms); err != nil {
			return state, err
		}
	}
	params.Logger.Printf("mounting %s on %s\n",
		layout.EfiPartition, params.EfiMountPoint)
	_, err := tools.RunChecked(params.Runner, "mount", layout.EfiPartition,
		params.EfiMountPoint)
	if err != nil {
		return state, err
	}
	state.Efi = installer.MountMethodMountedDirect
	params.Logger.Printf("mounting %s on %s\n",
		layout.RootPartition, params.RootMountPoint)
	_, mountErr := tools.RunChecked(params.Runner, "mount", "-t", "auto",
		layout.RootPartition, params.RootMountPoint)
	if mountErr == nil {
		state.Root = installer.MountMethodMountedDirect
		return state, nil
	}
	if _, err := params.Runner.LookPath(params.DriverPath); err != nil {
		params.Logger.Debugf(0, "no driver: %s: %s\n", params.DriverPath, err)
		return state, mountErr
	}
	params.Logger.Printf("direct mount failed: %s\n", mountErr)
	params.Logger.Printf("starting %s in the background\n", params.DriverPath)
	driver, err := params.Runner.Start(params.DriverPath, layout.RootPartition,
		params.RootMountPoint)
	if err != nil {
		return state, err
	}
	if err := waitForDriver(driver, params); err != nil {
		if killErr := driver.Kill(); killErr != nil {
			params.Logger.Printf("Error killing driver: %s\n", killErr)
		}
		return state, err
	}
	state.Root = installer.MountMethodMountedViaDriver
	state.driver = driver
	params.Logger.Printf("%s served by background driver (PID: %d)\n",
		params.RootMountPoint, driver.Pid())
	return state, nil
}

func isMountPoint(params Params, path string) bool {
	mountTable, err := params.MountTable()
	if err != nil {
		params.Logger.Debugf(0, "error reading mount table: %s\n", err)
		return false
	}
	return mountTable.IsMountPoint(path)
}

func processExited(process tools.Process) bool {
	select {
	case <-process.Exited():
		return true
	default:
		return false
	}
}

func waitForDriver(driver tools.Process, params Params) error {
	startTime := params.Clock.Now()
	var exited bool
	err := retry.Retry(func() bool {
		if processExited(driver) {
			exited = true
			return true
		}
		return isMountPoint(params, params.RootMountPoint)
	}, retry.Params{
		Clock:        params.Clock,
		RetryTimeout: params.ReadyTimeout,
		Sleeper:      params.Sleeper,
	})
	if exited {
		reason := "driver exited before the mount became active"
		if err := driver.Err(); err != nil {
			reason += ": " + err.Error()
		}
		return errors.NewVerificationError(params.RootMountPoint, reason)
	}
	if err != nil {
		return errors.NewTimeoutError(
			"waiting for "+params.RootMountPoint+" to become a mount point",
			params.ReadyTimeout)
	}
	params.Logger.Debugf(0, "%s active after %s\n", params.RootMountPoint,
		format.Duration(params.Clock.Now().Sub(startTime)))
	probe := filepath.Join(params.RootMountPoint, writeProbeName)
	if err := os.Mkdir(probe, fsutil.DirPerms); err != nil {
		return errors.NewVerificationError(params.RootMountPoint,
			"mounted but not writable: "+err.Error())
	}
	if err := os.Remove(probe); err != nil {
		return errors.NewVerificationError(params.RootMountPoint,
			"mounted but not writable: "+err.Error())
	}
	return nil
}

func (s *MountState) mountedPoints() []string {
	var mountPoints []string
	if s.Root != installer.MountMethodUnmounted {
		mountPoints = append(mountPoints, s.RootMountPoint)
	}
	if s.Efi != installer.MountMethodUnmounted {
		mountPoints = append(mountPoints, s.EfiMountPoint)
	}
	return mountPoints
}

func (s *MountState) unmountAll(params Params) (
	[]installer.NonFatalOutcome, error) {
	params.prepare()
	var outcomes []installer.NonFatalOutcome
	bestEffort := func(operation string, err error) {
		if err != nil {
			params.Logger.Printf("Warning: %s: %s\n", operation, err)
			outcomes = append(outcomes, installer.NonFatalOutcome{
				Operation: operation,
				Error:     err.Error(),
			})
		}
	}
	bestEffort("sync", params.Sync())
	if s.Root != installer.MountMethodUnmounted {
		params.Logger.Printf("unmounting %s\n", s.RootMountPoint)
		_, err := tools.RunChecked(params.Runner, "umount", s.RootMountPoint)
		if err != nil {
			return outcomes, err
		}
		s.Root = installer.MountMethodUnmounted
		if s.driver != nil {
			bestEffort("stopping driver", s.stopDriver(params))
			s.driver = nil
		}
	}
	if s.Efi != installer.MountMethodUnmounted {
		params.Logger.Printf("unmounting %s\n", s.EfiMountPoint)
		_, err := tools.RunChecked(params.Runner, "umount", s.EfiMountPoint)
		if err != nil {
			return outcomes, err
		}
		s.Efi = installer.MountMethodUnmounted
	}
	for _, dirname := range []string{s.RootMountPoint, s.EfiMountPoint} {
		bestEffort("removing "+dirname, os.Remove(dirname))
	}
	return outcomes, nil
}

func (s *MountState) stopDriver(params Params) error {
	err := retry.Retry(func() bool {
		return processExited(s.driver)
	}, retry.Params{
		Clock:        params.Clock,
		RetryTimeout: params.ExitTimeout,
		Sleeper:      params.Sleeper,
	})
	if err == nil {
		params.Logger.Debugf(0, "driver (PID: %d) exited\n", s.driver.Pid())
		return nil
	}
	if err := s.driver.Kill(); err != nil {
		return fmt.Errorf("error killing driver (PID: %d): %s",
			s.driver.Pid(), err)
	}
	return errors.NewTimeoutError(
		fmt.Sprintf("waiting for driver (PID: %d) to exit, killed",
			s.driver.Pid()),
		params.ExitTimeout)
}
