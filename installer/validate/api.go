/*
Package validate checks that an installation can start: the required
programmes are installed, the build has produced its outputs and the target
disk is usable.
*/
package validate

import (
	"github.com/redox-os-tools/disk-installer/lib/log"
	"github.com/redox-os-tools/disk-installer/lib/tools"
	"github.com/redox-os-tools/disk-installer/proto/installer"
)

// BuildDirectories must exist under the build root.
var BuildDirectories = []string{
	"build/x86_64",
	"cookbook/recipes/core/kernel",
	"cookbook/recipes/core/bootloader",
}

type Params struct {
	BuildRoot     string
	Config        installer.InstallationConfig
	DiskPath      string // Optional.
	DryRun        bool
	IsBlockDevice func(pathname string) bool // Default: fsutil.IsBlockDevice.
	IsPrivileged  func() bool                // Default: osutil.IsPrivileged.
	Logger        log.DebugLogger
	MinimumSize   uint64 // Default: constants.MinimumDiskSize.
	RedoxfsDriver string
	RedoxfsMkfs   string
	Runner        tools.Runner
}

// Check is the result of one check. Error is empty if the check passed.
type Check struct {
	Name  string
	Error string
}

type Report struct {
	Checks []Check
}

// Validate runs every check. If any check fails an error summarising the
// failures is returned along with the Report.
func Validate(params Params) (*Report, error) {
	return validate(params)
}

// Failed returns the checks which failed.
func (r *Report) Failed() []Check {
	return r.failed()
}
