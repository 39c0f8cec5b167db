package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultGracePeriod applies when a Command sets none.
const DefaultGracePeriod = 5 * time.Second

// stderrInError caps the stderr tail carried by ExitError.
const stderrInError = 512

// ErrBinaryRequired is returned for a Command without a Binary.
var ErrBinaryRequired = errors.New("process: binary is required")

// ExitError is a process that ran to completion with a non-zero status.
type ExitError struct {
	Binary   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("process: %s exited with code %d", e.Binary, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// Run starts c and waits for it. When ctx ends first the process group is
// sent SIGTERM and, after the grace period, SIGKILL; the returned error then
// wraps ctx.Err(). The Result is returned whenever the process started.
func Run(ctx context.Context, c Command) (*Result, error) {
	if c.Binary == "" {
		return nil, ErrBinaryRequired
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = DefaultGracePeriod
	}

	var stdout, stderr bytes.Buffer
	cmd := c.build(ctx, &stdout, &stderr)

	began := time.Now()
	runErr := cmd.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: -1,
		Duration: time.Since(began),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		return res, nil
	case ctx.Err() != nil:
		return res, fmt.Errorf("process: %s killed: %w", c.Binary, ctx.Err())
	case errors.As(runErr, &exitErr):
		return res, &ExitError{Binary: c.Binary, ExitCode: res.ExitCode, Stderr: res.StderrTail(stderrInError), Err: runErr}
	default:
		return res, fmt.Errorf("process: start %s: %w", c.Binary, runErr)
	}
}
