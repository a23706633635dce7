package faketools

import (
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/redox-os-tools/disk-installer/lib/errors"
	"github.com/redox-os-tools/disk-installer/lib/tools"
)

var errKilled = stderrors.New("signal: killed")

func newRunner() *Runner {
	return &Runner{
		absent:        make(map[string]struct{}),
		handlers:      make(map[string]Handler),
		nextPid:       1000,
		startHandlers: make(map[string]StartHandler),
	}
}

func (r *Runner) getCalls(name string) []Call {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	calls := make([]Call, 0, len(r.calls))
	for _, call := range r.calls {
		if name == "" || matches(call.Name, name) {
			calls = append(calls, call)
		}
	}
	return calls
}

func (r *Runner) isAbsent(name string) bool {
	if _, ok := r.absent[name]; ok {
		return true
	}
	_, ok := r.absent[filepath.Base(name)]
	return ok
}

func (r *Runner) lookPath(name string) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.isAbsent(name) {
		return "", &os.PathError{Op: "lookpath", Path: name,
			Err: os.ErrNotExist}
	}
	return name, nil
}

func (r *Runner) record(name string, args []string, background bool) {
	r.calls = append(r.calls, Call{
		Name:       name,
		Args:       append([]string(nil), args...),
		Background: background,
	})
}

func (r *Runner) run(name string, args []string) (*tools.Result, error) {
	r.mutex.Lock()
	r.record(name, args, false)
	if r.isAbsent(name) {
		r.mutex.Unlock()
		return nil, errors.NewToolLaunchError(name, args, os.ErrNotExist)
	}
	handler := r.handlers[name]
	if handler == nil {
		handler = r.handlers[filepath.Base(name)]
	}
	r.mutex.Unlock()
	result := &tools.Result{Name: name, Args: args}
	if handler != nil {
		output := handler(args)
		result.Stdout = output.Stdout
		result.Stderr = output.Stderr
		result.ExitCode = output.ExitCode
	}
	return result, nil
}

func (r *Runner) start(name string, args []string) (tools.Process, error) {
	r.mutex.Lock()
	r.record(name, args, true)
	if r.isAbsent(name) {
		r.mutex.Unlock()
		return nil, errors.NewToolLaunchError(name, args, os.ErrNotExist)
	}
	handler := r.startHandlers[name]
	if handler == nil {
		handler = r.startHandlers[filepath.Base(name)]
	}
	r.nextPid++
	pid := r.nextPid
	r.mutex.Unlock()
	if handler == nil {
		return NewProcess(pid), nil
	}
	process, err := handler(args)
	if err != nil {
		return nil, err
	}
	return process, nil
}

func matches(callName, name string) bool {
	return callName == name || filepath.Base(callName) == name
}
