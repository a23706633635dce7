/*
Package faketools provides a tools.Runner which simulates external programmes
for tests. Every invocation is recorded.
*/
package faketools

import (
	"sync"

	"github.com/redox-os-tools/disk-installer/lib/tools"
)

// Handler simulates a programme which runs to completion.
type Handler func(args []string) Output

// StartHandler simulates a programme which is started in the background.
type StartHandler func(args []string) (*Process, error)

type Call struct {
	Name       string
	Args       []string
	Background bool
}

type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

type Process struct {
	err    error
	exited chan struct{}
	killed bool
	mutex  sync.Mutex
	once   sync.Once
	pid    int
}

// Runner implements tools.Runner. Programmes without a Handler succeed with no
// output. Programmes are present for LookPath unless marked absent.
type Runner struct {
	mutex         sync.Mutex
	absent        map[string]struct{}
	calls         []Call
	handlers      map[string]Handler
	nextPid       int
	startHandlers map[string]StartHandler
}

var _ tools.Runner = (*Runner)(nil)

func New() *Runner {
	return newRunner()
}

// NewProcess returns a simulated background process which runs until Exit or
// Kill is called.
func NewProcess(pid int) *Process {
	return &Process{exited: make(chan struct{}), pid: pid}
}

// Calls returns a copy of all recorded invocations, in order.
func (r *Runner) Calls() []Call {
	return r.getCalls("")
}

// CallsTo returns the recorded invocations of the named programme. Names are
// compared by base name.
func (r *Runner) CallsTo(name string) []Call {
	return r.getCalls(name)
}

// Handle registers a Handler for the named programme.
func (r *Runner) Handle(name string, handler Handler) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.handlers[name] = handler
}

// HandleOutput registers a fixed Output for the named programme.
func (r *Runner) HandleOutput(name string, output Output) {
	r.Handle(name, func([]string) Output { return output })
}

// HandleStart registers a StartHandler for the named programme.
func (r *Runner) HandleStart(name string, handler StartHandler) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.startHandlers[name] = handler
}

// SetAbsent marks the named programme as not installed. Attempts to run it
// fail with a *errors.ToolLaunchError.
func (r *Runner) SetAbsent(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.absent[name] = struct{}{}
}

func (r *Runner) LookPath(name string) (string, error) {
	return r.lookPath(name)
}

func (r *Runner) Run(name string, args ...string) (*tools.Result, error) {
	return r.run(name, args)
}

func (r *Runner) Start(name string, args ...string) (tools.Process, error) {
	return r.start(name, args)
}

// Err returns the error passed to Exit.
func (p *Process) Err() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.err
}

// Exit simulates the process exiting with err.
func (p *Process) Exit(err error) {
	p.once.Do(func() {
		p.mutex.Lock()
		p.err = err
		p.mutex.Unlock()
		close(p.exited)
	})
}

func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

func (p *Process) Kill() error {
	p.mutex.Lock()
	p.killed = true
	p.mutex.Unlock()
	p.Exit(errKilled)
	return nil
}

// Killed returns true if Kill was called.
func (p *Process) Killed() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.killed
}

func (p *Process) Pid() int {
	return p.pid
}
