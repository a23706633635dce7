package errors

import (
	"fmt"
	"strings"
	"time"
)

const maxExcerptLength = 512

// ToolLaunchError is returned when an external tool could not be started,
// including when the executable does not exist.
type ToolLaunchError struct {
	Tool string
	Args []string
	Hint string
	Err  error
}

func (e *ToolLaunchError) Error() string {
	msg := "error launching: " + commandLine(e.Tool, e.Args) + ": " +
		e.Err.Error()
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	return msg
}

func (e *ToolLaunchError) Unwrap() error { return e.Err }

func NewToolLaunchError(tool string, args []string, err error) *ToolLaunchError {
	return &ToolLaunchError{Tool: tool, Args: args, Err: err}
}

// ToolExitError is returned when an external tool ran to completion but
// exited with a non-zero status.
type ToolExitError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ToolExitError) Error() string {
	msg := fmt.Sprintf("error running: %s: exit status %d",
		commandLine(e.Tool, e.Args), e.ExitCode)
	if excerpt := Excerpt(e.Stderr); excerpt != "" {
		msg += ", output: " + excerpt
	}
	return msg
}

func NewToolExitError(tool string, args []string, exitCode int,
	stderr string) *ToolExitError {
	return &ToolExitError{
		Tool:     tool,
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}

// ParseError is returned when the output of a tool does not contain what was
// expected, regardless of the exit status of the tool.
type ParseError struct {
	Tool    string
	Field   string
	Excerpt string
}

func (e *ParseError) Error() string {
	msg := "error parsing " + e.Field + " from " + e.Tool + " output"
	if excerpt := Excerpt(e.Excerpt); excerpt != "" {
		msg += ": " + excerpt
	}
	return msg
}

func NewParseError(tool, field, output string) *ParseError {
	return &ParseError{Tool: tool, Field: field, Excerpt: output}
}

// VerificationError is returned when a check made after a step does not hold.
type VerificationError struct {
	Subject string
	Reason  string
}

func (e *VerificationError) Error() string {
	return e.Subject + ": " + e.Reason
}

func NewVerificationError(subject, reason string) *VerificationError {
	return &VerificationError{Subject: subject, Reason: reason}
}

// TimeoutError is returned when a bounded wait expires.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return e.Operation + ": timed out after " + e.Timeout.String()
	}
	return e.Operation + ": timed out"
}

func NewTimeoutError(operation string, timeout time.Duration) *TimeoutError {
	return &TimeoutError{Operation: operation, Timeout: timeout}
}

// StageError wraps the first failure of a pipeline stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }

func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// Excerpt trims whitespace from output and limits its length so that it may
// be included in an error message.
func Excerpt(output string) string {
	output = strings.TrimSpace(output)
	if len(output) > maxExcerptLength {
		return "..." + output[len(output)-maxExcerptLength:]
	}
	return output
}

func commandLine(tool string, args []string) string {
	if len(args) < 1 {
		return tool
	}
	return tool + " " + strings.Join(args, " ")
}
