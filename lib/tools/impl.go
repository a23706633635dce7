package tools

import (
	"bytes"
	stderrors "errors"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/redox-os-tools/disk-installer/lib/errors"
)

type execProcess struct {
	cmd    *exec.Cmd
	err    error
	exited chan struct{}
}

type dryProcess struct {
	exited chan struct{}
	once   sync.Once
}

func commandLine(name string, args []string) string {
	if len(args) < 1 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

func runChecked(runner Runner, name string, args []string) (*Result, error) {
	result, err := runner.Run(name, args...)
	if err != nil {
		return nil, err
	}
	if err := result.Check(); err != nil {
		return result, err
	}
	return result, nil
}

func (r *Result) check() error {
	if r.Success() {
		return nil
	}
	return errors.NewToolExitError(r.Name, r.Args, r.ExitCode, r.Stderr)
}

func (r *execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r *execRunner) Run(name string, args ...string) (*Result, error) {
	r.logger.Debugf(0, "running: %s\n", commandLine(name, args))
	cmd := exec.Command(name, args...)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	result := &Result{Name: name, Args: args}
	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if !stderrors.As(err, &exitError) {
			return nil, errors.NewToolLaunchError(name, args, err)
		}
		result.ExitCode = exitError.ExitCode()
		if result.ExitCode == 0 {
			result.ExitCode = -1
		}
	}
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	r.logger.Debugf(1, "%s: exit status %d\n", name, result.ExitCode)
	return result, nil
}

func (r *execRunner) Start(name string, args ...string) (Process, error) {
	r.logger.Debugf(0, "starting: %s\n", commandLine(name, args))
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, errors.NewToolLaunchError(name, args, err)
	}
	process := &execProcess{cmd: cmd, exited: make(chan struct{})}
	go func() {
		process.err = cmd.Wait()
		close(process.exited)
	}()
	return process, nil
}

func (p *execProcess) Err() error {
	return p.err
}

func (p *execProcess) Exited() <-chan struct{} {
	return p.exited
}

func (p *execProcess) Kill() error {
	return p.cmd.Process.Kill()
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (r *dryRunner) LookPath(name string) (string, error) {
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	return name, nil
}

func (r *dryRunner) Run(name string, args ...string) (*Result, error) {
	r.logger.Printf("dry run: %s\n", commandLine(name, args))
	result := &Result{Name: name, Args: args}
	if output, ok := r.outputs[filepath.Base(name)]; ok {
		result.Stdout = output.Stdout
		result.Stderr = output.Stderr
		result.ExitCode = output.ExitCode
	}
	return result, nil
}

func (r *dryRunner) Start(name string, args ...string) (Process, error) {
	r.logger.Printf("dry run: %s &\n", commandLine(name, args))
	return &dryProcess{exited: make(chan struct{})}, nil
}

func (p *dryProcess) Err() error {
	return nil
}

func (p *dryProcess) Exited() <-chan struct{} {
	return p.exited
}

func (p *dryProcess) Kill() error {
	p.once.Do(func() { close(p.exited) })
	return nil
}

func (p *dryProcess) Pid() int {
	return 0
}
