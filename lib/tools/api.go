/*
Package tools runs the external programmes which do the real work of
partitioning, formatting and mounting.

Every invocation is run to completion before its result is inspected. A
non-nil error from Run means the programme could not be launched; a programme
which ran and failed is reported through the Result.
*/
package tools

import (
	"github.com/redox-os-tools/disk-installer/lib/log"
)

// Result is the outcome of running a programme to completion.
type Result struct {
	Name     string
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
}

// Process is a programme which was started in the background.
type Process interface {
	Pid() int
	// Exited returns a channel which is closed when the process exits.
	Exited() <-chan struct{}
	// Err returns the exit error. It is only valid after Exited is closed.
	Err() error
	Kill() error
}

type Runner interface {
	Run(name string, args ...string) (*Result, error)
	Start(name string, args ...string) (Process, error)
	LookPath(name string) (string, error)
}

type dryRunner struct {
	logger  log.DebugLogger
	outputs map[string]Result
}

type execRunner struct {
	logger log.DebugLogger
}

// New returns a Runner which executes programmes. Every invocation is logged at
// debug level 0.
func New(logger log.DebugLogger) Runner {
	return &execRunner{logger: logger}
}

// NewDryRunner returns a Runner which logs invocations and reports success
// without executing anything. The outputs map, keyed by programme base name,
// supplies simulated output for programmes whose output is parsed.
func NewDryRunner(logger log.DebugLogger,
	outputs map[string]Result) Runner {
	return &dryRunner{logger: logger, outputs: outputs}
}

// Success returns true if the programme exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Check returns a *errors.ToolExitError if the programme did not succeed.
func (r *Result) Check() error {
	return r.check()
}

// CommandLine returns the programme name and arguments separated by spaces.
func CommandLine(name string, args ...string) string {
	return commandLine(name, args)
}

// RunChecked will run a programme and return its result if it succeeded, else
// a *errors.ToolLaunchError or *errors.ToolExitError.
func RunChecked(runner Runner, name string, args ...string) (*Result, error) {
	return runChecked(runner, name, args)
}
