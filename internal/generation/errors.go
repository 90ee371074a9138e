package generation

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Generation errors. Typed errors below unwrap to these sentinels.
var (
	ErrGenerationFailed    = errors.New("generation failed")
	ErrProcessFailed       = errors.New("process failed")
	ErrProcessLaunchFailed = errors.New("process launch failed")
	ErrUnknownCapability   = errors.New("unknown capability")
)

// maxStderrDetail bounds the stderr text carried in error details.
const maxStderrDetail = 500

// FailedError reports a process that ran but did not produce a usable result.
type FailedError struct {
	Detail string
}

func (e *FailedError) Error() string { return "generation failed: " + e.Detail }

func (e *FailedError) Unwrap() error { return ErrGenerationFailed }

// ProcessError reports a process that exited with a non-zero status.
type ProcessError struct {
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("process exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("process exited with code %d: %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error { return ErrProcessFailed }

// LaunchError reports a process that could not be started.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("could not start %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() []error { return []error{ErrProcessLaunchFailed, e.Err} }

// Detail returns the diagnostic text surfaced to clients for a generation error.
func Detail(err error) string {
	var failed *FailedError
	if errors.As(err, &failed) {
		return failed.Detail
	}
	var proc *ProcessError
	if errors.As(err, &proc) {
		return proc.Error()
	}
	var launch *LaunchError
	if errors.As(err, &launch) {
		return launch.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
