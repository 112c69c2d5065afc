package nbconvert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/alnah/go-nb2html/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
// The child runs in its own process group; when ctx is done the whole group is killed.
type ExecRunner struct{}

// Run executes name with args, waits for it to exit, and returns captured output.
// A non-zero exit is reported as *exec.ExitError alongside the captured stderr.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	cmd := exec.Command(name, args...) // #nosec G204 -- converter binary is operator-configured
	process.Isolate(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return stdout.String(), stderr.String(), err
	case <-ctx.Done():
		process.KillGroup(cmd.Process.Pid)
		<-done
		return stdout.String(), stderr.String(), ctx.Err()
	}
}

// exitCode extracts the process exit code from err, or -1 if unavailable.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
