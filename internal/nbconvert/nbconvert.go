// Package nbconvert drives the external `jupyter nbconvert` command.
package nbconvert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultBinary is the launcher used when none is configured.
const DefaultBinary = "jupyter"

// htmlExtension is what nbconvert's HTML exporter appends to --output.
const htmlExtension = ".html"

// Sentinel errors for nbconvert invocations.
var (
	ErrNotInstalled = errors.New("nbconvert executable not found")
	ErrFailed       = errors.New("nbconvert exited with an error")
	ErrNoOutput     = errors.New("nbconvert produced no output file")
)

// RunError describes a failed converter run.
type RunError struct {
	Command  []string
	ExitCode int // -1 if the process did not exit normally
	Stderr   string
	Err      error
}

func (e *RunError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s (exit %d): %s", strings.Join(e.Command, " "), e.ExitCode, lastLines(msg, 5))
}

// Unwrap lets callers match ErrFailed and the underlying exec error.
func (e *RunError) Unwrap() []error { return []error{ErrFailed, e.Err} }

// Option configures a Client.
type Option func(*Client)

// WithRunner injects a custom command runner (primarily for tests).
func WithRunner(r CommandRunner) Option {
	return func(c *Client) {
		if r != nil {
			c.runner = r
		}
	}
}

// WithExtraArgs appends arguments before the input path, e.g. --no-input.
func WithExtraArgs(args ...string) Option {
	return func(c *Client) {
		c.extraArgs = append(c.extraArgs, args...)
	}
}

// WithLookPath overrides executable discovery (primarily for tests).
func WithLookPath(fn func(string) (string, error)) Option {
	return func(c *Client) {
		if fn != nil {
			c.lookPath = fn
		}
	}
}

// Client wraps nbconvert CLI interactions.
type Client struct {
	binary    string
	extraArgs []string
	runner    CommandRunner
	lookPath  func(string) (string, error)
}

// New constructs a Client. An empty binary selects DefaultBinary.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	c := &Client{
		binary:   binary,
		runner:   &ExecRunner{},
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Binary returns the configured launcher.
func (c *Client) Binary() string { return c.binary }

// Check verifies that the launcher can be found on PATH.
func (c *Client) Check() (string, error) {
	path, err := c.lookPath(c.binary)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrNotInstalled, c.binary, err)
	}
	return path, nil
}

// Version reports the nbconvert version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	args := append(c.subcommand(), "--version")
	stdout, stderr, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		return "", c.runError(args, stderr, err)
	}
	return strings.TrimSpace(stdout), nil
}

// ToHTML converts the notebook at input into an HTML file at output.
// nbconvert always names its result <stem>.html inside --output-dir; when
// output has a different extension the file is renamed into place.
func (c *Client) ToHTML(ctx context.Context, input, output string) error {
	if _, err := c.Check(); err != nil {
		return err
	}

	dir := filepath.Dir(output)
	stem := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))

	args := c.subcommand()
	args = append(args, "--to", "html", "--output-dir", dir, "--output", stem)
	args = append(args, c.extraArgs...)
	args = append(args, input)

	_, stderr, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return c.runError(args, stderr, err)
	}

	produced := filepath.Join(dir, stem+htmlExtension)
	if produced != filepath.Clean(output) {
		if err := os.Rename(produced, output); err != nil {
			return fmt.Errorf("%w: %v", ErrNoOutput, err)
		}
	}
	if _, err := os.Stat(output); err != nil {
		return fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	return nil
}

// subcommand returns the leading "nbconvert" argument unless the binary is
// already the dedicated jupyter-nbconvert entry point.
func (c *Client) subcommand() []string {
	if strings.HasPrefix(filepath.Base(c.binary), "jupyter-nbconvert") {
		return nil
	}
	return []string{"nbconvert"}
}

func (c *Client) runError(args []string, stderr string, err error) *RunError {
	return &RunError{
		Command:  append([]string{c.binary}, args...),
		ExitCode: exitCode(err),
		Stderr:   stderr,
		Err:      err,
	}
}

// lastLines keeps the tail of a multi-line message; nbconvert tracebacks are long.
func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
