package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redox-os-tools/disk-installer/installer/mounter"
	"github.com/redox-os-tools/disk-installer/installer/planner"
	"github.com/redox-os-tools/disk-installer/installer/populator"
	"github.com/redox-os-tools/disk-installer/installer/provision"
	"github.com/redox-os-tools/disk-installer/lib/clock"
	"github.com/redox-os-tools/disk-installer/lib/constants"
	"github.com/redox-os-tools/disk-installer/lib/errors"
	"github.com/redox-os-tools/disk-installer/lib/format"
	"github.com/redox-os-tools/disk-installer/lib/fsutil"
	"github.com/redox-os-tools/disk-installer/lib/fsutil/mounts"
	"github.com/redox-os-tools/disk-installer/lib/osutil"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

type runState struct {
	existing   []*mounts.MountEntry
	mountState *mounter.MountState
	params     Params
	populator  *populator.Populator
	report     *Report
}

func (p *Params) prepare() {
	if p.Clock == nil {
		p.Clock = clock.New()
	}
	if p.DevicesDirectory == "" {
		p.DevicesDirectory = "/dev"
	}
	if p.EfiMountPoint == "" {
		p.EfiMountPoint = constants.DefaultEfiMountPoint
	}
	if p.MountTable == nil {
		p.MountTable = mounts.GetMountTable
	}
	if p.RootMountPoint == "" {
		p.RootMountPoint = constants.DefaultRootMountPoint
	}
	if p.Sync == nil {
		p.Sync = func() error { return osutil.SyncTimeout(time.Minute) }
	}
}

func run(params Params) (*Report, error) {
	params.prepare()
	setupMetrics()
	state := &runState{
		params: params,
		report: &Report{
			RunID:  uuid.New(),
			Disk:   params.Disk,
			Config: params.Config,
			Layout: planner.ComputeLayout(params.Disk.DevicePath, params.Config),
		},
	}
	state.populator = populator.New(populator.Params{
		BuildRoot:      params.BuildRoot,
		DiskPath:       params.Disk.DevicePath,
		EfiMountPoint:  params.EfiMountPoint,
		Logger:         params.Logger,
		Resolver:       params.Resolver,
		RootMountPoint: params.RootMountPoint,
		Runner:         params.Runner,
	})
	params.Logger.Printf("run %s: installing to %s (%s, EFI: %d MB, root: %s)\n",
		state.report.RunID, params.Disk.DevicePath, params.Disk.Size,
		params.Config.EfiSizeMB, params.Config.FileSystemKind)
	err := state.run()
	installed := state.populator.Summary()
	state.report.Installed = installed
	state.report.Outcomes = append(state.report.Outcomes, installed.Outcomes...)
	if state.mountState != nil {
		state.report.EfiMount = state.mountState.Efi
		state.report.RootMount = state.mountState.Root
		state.report.MountedPoints = state.mountState.MountedPoints()
	}
	countRun(err != nil, installed.TotalPayloadFiles)
	return state.report, err
}

func (s *runState) run() error {
	for _, stage := range stages() {
		if err := s.runStage(stage); err != nil {
			if stage >= StageCreatePartitions {
				s.params.Logger.Printf(
					"%s has likely been modified and may need manual cleanup\n",
					s.params.Disk.DevicePath)
			}
			return errors.NewStageError(stage.String(), err)
		}
	}
	return nil
}

func (s *runState) runStage(stage Stage) error {
	if step := stage.Step(); step > 0 {
		s.params.Logger.Printf("[%d/%d] %s...\n", step, NumSteps,
			stage.Description())
	} else {
		s.params.Logger.Printf("%s...\n", stage.Description())
	}
	startTime := s.params.Clock.Now()
	err := s.stageFunc(stage)()
	duration := s.params.Clock.Now().Sub(startTime)
	recordStageTime(stage, duration)
	result := StageResult{Stage: stage, Duration: duration}
	if err != nil {
		result.Error = err.Error()
		s.params.Logger.Printf("%s failed after %s: %s\n",
			stage, format.Duration(duration), err)
	} else {
		s.params.Logger.Debugf(0, "%s completed in %s\n",
			stage, format.Duration(duration))
	}
	s.report.Stages = append(s.report.Stages, result)
	return err
}

func (s *runState) stageFunc(stage Stage) func() error {
	switch stage {
	case StageVerifyDisk:
		return s.verifyDisk
	case StageUnmountExisting:
		return s.unmountExisting
	case StageCreatePartitions:
		return s.createPartitions
	case StageFormatPartitions:
		return s.formatPartitions
	case StageMountPartitions:
		return s.mountPartitions
	case StageInstallBootloader:
		return s.populator.InstallBootloader
	case StageInstallFilesystem:
		return s.populator.InstallFilesystem
	case StageInstallKernel:
		return s.populator.InstallKernel
	case StageCreateConfigFiles:
		return s.createConfigFiles
	case StageUnmountPartitions:
		return s.unmountPartitions
	}
	return func() error {
		return errors.NewVerificationError(stage.String(), "unknown stage")
	}
}

func (s *runState) addOutcomes(outcomes []installer.NonFatalOutcome) {
	s.report.Outcomes = append(s.report.Outcomes, outcomes...)
}

func (s *runState) bestEffort(operation string, err error) {
	if err == nil {
		return
	}
	s.params.Logger.Printf("Warning: %s: %s\n", operation, err)
	s.addOutcomes([]installer.NonFatalOutcome{{
		Operation: operation,
		Error:     err.Error(),
	}})
}

func (s *runState) deviceExists(pathname string) bool {
	if s.params.DeviceExists != nil {
		return s.params.DeviceExists(pathname)
	}
	return fsutil.IsBlockDevice(pathname)
}

func (s *runState) verifyDisk() error {
	if err := s.params.Config.Validate(); err != nil {
		return err
	}
	disk := s.params.Disk.DevicePath
	if !s.deviceExists(disk) {
		return errors.NewVerificationError(disk,
			"does not exist or is not a block device")
	}
	mountTable, err := s.params.MountTable()
	if err != nil {
		return err
	}
	s.existing = mountTable.FindDevice(disk, true)
	for _, path := range []string{"/", s.params.EfiMountPoint,
		s.params.RootMountPoint} {
		entry := mountTable.FindEntry(path)
		if entry == nil {
			continue
		}
		for _, existing := range s.existing {
			if entry == existing {
				return errors.NewVerificationError(disk,
					"holds the file-system containing "+path)
			}
		}
	}
	if len(s.existing) > 0 {
		s.params.Logger.Printf("%s has %d mounted file-systems\n",
			disk, len(s.existing))
	}
	return nil
}

func (s *runState) unmountExisting() error {
	// Deepest mount points first.
	sort.Slice(s.existing, func(left, right int) bool {
		return len(s.existing[left].MountPoint) >
			len(s.existing[right].MountPoint)
	})
	for _, entry := range s.existing {
		s.params.Logger.Printf("unmounting %s from %s\n",
			entry.Device, entry.MountPoint)
		_, err := tools.RunChecked(s.params.Runner, "umount", "-f",
			entry.MountPoint)
		s.bestEffort("unmounting "+entry.MountPoint, err)
	}
	return nil
}

func (s *runState) provisionParams() provision.Params {
	return provision.Params{
		Clock:         s.params.Clock,
		DeviceExists:  s.params.DeviceExists,
		Logger:        s.params.Logger,
		Prober:        s.params.Prober,
		RedoxfsMkfs:   s.params.RedoxfsMkfs,
		Runner:        s.params.Runner,
		SettleTimeout: s.params.SettleTimeout,
		Sleeper:       s.params.Sleeper,
		Sync:          s.params.Sync,
	}
}

func (s *runState) mounterParams() mounter.Params {
	return mounter.Params{
		Clock:          s.params.Clock,
		DriverPath:     s.params.DriverPath,
		EfiMountPoint:  s.params.EfiMountPoint,
		Logger:         s.params.Logger,
		MountTable:     s.params.MountTable,
		ReadyTimeout:   s.params.DriverReadyTimeout,
		RootMountPoint: s.params.RootMountPoint,
		Runner:         s.params.Runner,
		Sleeper:        s.params.Sleeper,
		Sync:           s.params.Sync,
	}
}

func (s *runState) createPartitions() error {
	params := s.provisionParams()
	if params.DeviceExists == nil && params.Sleeper == nil {
		sleeper, err := fsutil.NewNotifySleeper(s.params.DevicesDirectory,
			10*time.Millisecond, time.Second, s.params.Logger)
		if err != nil {
			s.params.Logger.Debugf(0, "not watching %s: %s\n",
				s.params.DevicesDirectory, err)
		} else {
			defer sleeper.Close()
			params.Sleeper = sleeper
		}
	}
	result, err := provision.CreatePartitions(s.report.Layout, params)
	if result != nil {
		s.addOutcomes(result.Outcomes)
	}
	return err
}

func (s *runState) formatPartitions() error {
	result, err := provision.FormatPartitions(s.report.Layout,
		s.params.Config, s.provisionParams())
	if result != nil {
		s.addOutcomes(result.Outcomes)
		s.report.VolumeIdentity = result.VolumeIdentity
	}
	if err != nil {
		return err
	}
	if s.report.VolumeIdentity != "" {
		s.params.Logger.Printf("volume identity: %s\n",
			s.report.VolumeIdentity)
	}
	return nil
}

func (s *runState) mountPartitions() error {
	mountState, err := mounter.MountAll(s.report.Layout, s.mounterParams())
	s.mountState = mountState
	return err
}

func (s *runState) createConfigFiles() error {
	s.report.RootReference = s.report.Layout.RootReference(
		s.report.VolumeIdentity)
	return s.populator.WriteBootConfig(s.report.RootReference)
}

func (s *runState) unmountPartitions() error {
	if s.params.LogArchive != nil {
		s.bestEffort("archiving log", s.archiveLog())
	}
	outcomes, err := s.mountState.UnmountAll(s.mounterParams())
	s.addOutcomes(outcomes)
	return err
}

func (s *runState) archiveLog() error {
	if err := s.params.LogArchive.Flush(); err != nil {
		return err
	}
	filename := filepath.Join(s.params.RootMountPoint,
		constants.LogArchiveFile)
	if err := os.MkdirAll(filepath.Dir(filename), fsutil.DirPerms); err != nil {
		return err
	}
	return fsutil.CopyFile(filename, s.params.LogArchive.Filename(),
		fsutil.PublicFilePerms)
}
