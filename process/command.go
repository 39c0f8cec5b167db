package process

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// Command is one subprocess invocation.
type Command struct {
	// Binary is a path, or a name looked up on PATH.
	Binary string
	Args   []string
	// Dir defaults to the current directory.
	Dir string
	// Env is appended to the inherited environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod separates SIGTERM from SIGKILL on cancellation.
	GracePeriod time.Duration
}

// Result is what a finished (or killed) subprocess left behind.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int // -1 if killed by a signal
	Duration time.Duration
}

// StderrTail is the trimmed end of stderr, at most n bytes, cut at a line
// break when possible. ffmpeg prints its reason for failing last.
func (r *Result) StderrTail(n int) string {
	if r == nil {
		return ""
	}
	tail := bytes.TrimSpace(r.Stderr)
	if n <= 0 || len(tail) <= n {
		return string(tail)
	}
	tail = tail[len(tail)-n:]
	if _, rest, ok := bytes.Cut(tail, []byte{'\n'}); ok && len(rest) > 0 {
		tail = rest
	}
	return string(tail)
}

// build prepares an exec.Cmd that runs in its own process group, so a
// cancel reaches the tool's children too.
func (c Command) build(ctx context.Context, stdout, stderr io.Writer) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Binary, c.Args...) //nolint:gosec // callers build args, never from raw input
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdin = c.Stdin
	cmd.Stdout, cmd.Stderr = stdout, stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
	cmd.WaitDelay = c.GracePeriod
	return cmd
}
