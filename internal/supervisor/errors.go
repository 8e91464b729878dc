package supervisor

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	ErrNotFound        = errors.New("executable not found")
	ErrNotExecutable   = errors.New("executable is not executable")
	ErrShutdownTimeout = errors.New("graceful shutdown timed out")
)

// ConfigError reports that the gateway settings could not be read.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("settings unavailable: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PathError reports a missing or unusable gateway executable.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return fmt.Sprintf("executable not found at: %s", e.Path)
	case errors.Is(e.Err, ErrNotExecutable):
		return fmt.Sprintf("executable is not executable: %s", e.Path)
	default:
		return fmt.Sprintf("cannot use executable at %s: %v", e.Path, e.Err)
	}
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// LaunchError reports that the gateway process could not be spawned.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start: %v", e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// CrashError describes a gateway exit that was not requested.
type CrashError struct {
	Name string
	PID  int
	Exit ExitEvent
}

func (e *CrashError) Error() string {
	return fmt.Sprintf("%s process terminated unexpectedly with %s", e.Name, e.Exit)
}

// ExitEvent describes how a process exited. Exactly one of Code and
// Signal is set.
type ExitEvent struct {
	// Code is the exit code of the process
	Code *int `json:"code,omitempty"`

	// Signal is the signal that caused the process to exit
	Signal *int `json:"signal,omitempty"`
}

func (e ExitEvent) String() string {
	if e.Signal != nil {
		return fmt.Sprintf("signal: %s", syscall.Signal(*e.Signal))
	}
	if e.Code != nil {
		return fmt.Sprintf("exit code: %d", *e.Code)
	}
	return "unknown exit status"
}
