package qdevice

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Runner executes an external command and captures its output. The error
// covers spawn failures only; a command that ran and exited non-zero
// comes back with its exit code and a nil error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, exitCode int, err error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
		err = nil
	}
	return stdout.String(), stderr.String(), exitCode, err
}
