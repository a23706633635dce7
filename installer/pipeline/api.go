/*
Package pipeline runs an installation: the ordered sequence of disk-mutating
stages from partitioning to the final unmount.

Each stage must succeed before the next starts. The first failure ends the
run and is returned wrapped in a *errors.StageError; earlier stages are not
undone and the partitions may remain mounted. Best-effort steps record a
NonFatalOutcome in the Report instead of failing the run.
*/
package pipeline

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redox-os-tools/disk-installer/installer/artifacts"
	"github.com/redox-os-tools/disk-installer/installer/populator"
	"github.com/redox-os-tools/disk-installer/installer/provision"
	"github.com/redox-os-tools/disk-installer/lib/backoffdelay"
	"github.com/redox-os-tools/disk-installer/lib/clock"
	"github.com/redox-os-tools/disk-installer/lib/fsutil/mounts"
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

const (
	StageVerifyDisk Stage = iota
	StageUnmountExisting
	StageCreatePartitions
	StageFormatPartitions
	StageMountPartitions
	StageInstallBootloader
	StageInstallFilesystem
	StageInstallKernel
	StageCreateConfigFiles
	StageUnmountPartitions
)

// NumSteps is the number of numbered progress steps. The pre-flight stages
// are not numbered.
const NumSteps = 8

type Stage uint

// LogArchive is the log file of the run. It is implemented by
// *filelogger.Logger.
type LogArchive interface {
	Filename() string
	Flush() error
}

type Params struct {
	BuildRoot    string
	Clock        clock.Clock // Default: system time.
	Config       installer.InstallationConfig
	DeviceExists func(pathname string) bool // Default: fsutil.IsBlockDevice.
	// Watched for partition device nodes if DeviceExists is nil.
	DevicesDirectory   string
	Disk               installer.DiskDescriptor
	DriverPath         string
	DriverReadyTimeout time.Duration
	EfiMountPoint      string     // Default: constants.DefaultEfiMountPoint.
	LogArchive         LogArchive // Optional.
	Logger             log.DebugLogger
	MountTable         func() (*mounts.MountTable, error) // Default: system.
	Prober             provision.FileSystemProber         // Optional.
	RedoxfsMkfs        string
	Resolver           *artifacts.Resolver
	RootMountPoint     string // Default: constants.DefaultRootMountPoint.
	Runner             tools.Runner
	SettleTimeout      time.Duration
	Sleeper            backoffdelay.Sleeper // Default: per operation.
	Sync               func() error         // Default: bounded sync(2).
}

// StageResult records the outcome of one stage.
type StageResult struct {
	Stage    Stage
	Duration time.Duration
	Error    string `json:",omitempty"`
}

// Report describes a run, whether or not it succeeded.
type Report struct {
	RunID          uuid.UUID
	Disk           installer.DiskDescriptor
	Config         installer.InstallationConfig
	Layout         installer.PartitionLayout
	VolumeIdentity installer.VolumeIdentity `json:",omitempty"`
	RootReference  string                   `json:",omitempty"`
	EfiMount       installer.MountMethod
	RootMount      installer.MountMethod
	MountedPoints  []string `json:",omitempty"`
	Installed      populator.Summary
	Stages         []StageResult
	Outcomes       []installer.NonFatalOutcome `json:",omitempty"`
}

// Run runs every stage for the disk and configuration in params. The Report
// is returned even if a stage fails.
func Run(params Params) (*Report, error) {
	return run(params)
}

// Stages returns every stage in order.
func Stages() []Stage {
	return stages()
}

// Completed returns true if every stage succeeded.
func (r *Report) Completed() bool {
	return r.completed()
}

// WriteSummary writes a human readable summary of the run to writer.
func (r *Report) WriteSummary(writer io.Writer) error {
	return r.writeSummary(writer)
}

// Description returns the progress message for stage.
func (stage Stage) Description() string {
	return stageDescriptions[stage]
}

// Step returns the progress step number of stage, or 0 for pre-flight stages.
func (stage Stage) Step() uint {
	return stage.step()
}

func (stage Stage) String() string {
	return stage.string()
}
