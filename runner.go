package devenv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// Invocation is a single external command line.
type Invocation struct {
	// Args is the full command line, Args[0] being the binary
	Args []string

	// Capture collects stdout into Result.Output instead of streaming it
	Capture bool
}

// Result is the outcome of a completed invocation.
type Result struct {
	ExitCode int
	Output   []byte
}

// Runner runs external processes. Every backend call goes through it so
// tests can substitute a fake.
//
// A non-zero exit code is not an error: Run returns an error only when the
// process could not be started or waited on.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}

// ExecRunner implements Runner with os/exec, wiring the child to the
// current terminal.
type ExecRunner struct {
	// Dir is the working directory of the child, empty for the current one
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner attached to os.Stdin, os.Stdout and os.Stderr
func NewExecRunner(dir string) *ExecRunner {
	return &ExecRunner{
		Dir:    dir,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes the invocation and waits for it to complete
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if len(inv.Args) == 0 {
		return nil, errors.New("empty command line")
	}

	zlog.Debug("executing command",
		zap.String("cmd", inv.Args[0]),
		zap.Strings("args", inv.Args[1:]),
		zap.Bool("capture", inv.Capture),
		zap.String("dir", r.Dir))

	cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdin = r.Stdin
	cmd.Stderr = r.Stderr

	var stdout bytes.Buffer
	if inv.Capture {
		cmd.Stdout = &stdout
	} else {
		cmd.Stdout = r.Stdout
	}

	err := cmd.Run()
	result := &Result{Output: stdout.Bytes()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		zlog.Debug("command exited with non-zero code",
			zap.Strings("args", inv.Args),
			zap.Int("exit_code", result.ExitCode))
		return result, nil
	}

	return nil, fmt.Errorf("failed to run %s: %w", inv.Args[0], err)
}
