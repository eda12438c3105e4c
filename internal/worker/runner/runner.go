// Package runner launches external tools and waits for them to exit.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// ErrLaunch is wrapped by every error caused by the process failing to start.
var ErrLaunch = errors.New("failed to launch process")

// Result is the outcome of a process that started and exited.
type Result struct {
	ExitCode int
	Output   []byte
}

// Runner runs a single external process to completion.
// A non-zero exit is reported in Result.ExitCode, not as an error.
type Runner interface {
	Run(ctx context.Context, name string, args []string, capture bool) (Result, error)
}

type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts name with args. With capture set, stdout and stderr share one
// pipe that is read to EOF before the process is waited on.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, capture bool) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	hideWindow(cmd)

	var stdout io.ReadCloser
	if capture {
		pipe, err := cmd.StdoutPipe()
		if err != nil {
			return Result{}, fmt.Errorf("%w: %s: %v", ErrLaunch, name, err)
		}
		stdout = pipe
		cmd.Stderr = cmd.Stdout
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrLaunch, name, err)
	}

	var output []byte
	var readErr error
	if stdout != nil {
		output, readErr = io.ReadAll(stdout)
	}

	waitErr := cmd.Wait()
	if readErr != nil {
		return Result{Output: output}, fmt.Errorf("read output of %s: %w", name, readErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode(), Output: output}, nil
		}
		return Result{Output: output}, fmt.Errorf("wait for %s: %w", name, waitErr)
	}
	return Result{ExitCode: 0, Output: output}, nil
}
