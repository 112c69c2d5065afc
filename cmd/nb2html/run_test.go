package main

// Notes:
// - runMain: we test dispatch and exit codes with a fake converter. Real
//   conversions are covered by the library tests.
// - hintFor: we test that each failure family gets its hint.

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-nb2html"
	"github.com/alnah/go-nb2html/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunMain_Dispatch - Commands and exit codes
// ---------------------------------------------------------------------------

func TestRunMain_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		vars       map[string]string
		convErr    error
		wantCode   int
		wantStdout string
		wantStderr string
		wantMode   nb2html.Mode
		wantCalls  int
	}{
		{name: "no command", args: nil, wantCode: ExitUsage, wantStderr: "Usage: nb2html"},
		{name: "unknown command", args: []string{"render"}, wantCode: ExitUsage, wantStderr: "Unknown command: render"},
		{name: "version", args: []string{"version"}, wantCode: ExitSuccess, wantStdout: "nb2html dev"},
		{name: "help", args: []string{"help"}, wantCode: ExitSuccess, wantStdout: "Commands:"},
		{name: "help convert", args: []string{"help", "convert"}, wantCode: ExitSuccess, wantStdout: "--on-missing-body"},
		{name: "convert help flag", args: []string{"convert", "--help"}, wantCode: ExitSuccess, wantStdout: "Simple mode:"},
		{
			name:       "convert default mode",
			args:       []string{"convert", "a.ipynb"},
			wantCode:   ExitSuccess,
			wantStdout: "2.0 kB",
			wantMode:   nb2html.ModeSimple,
			wantCalls:  1,
		},
		{
			name:      "notebook shorthand",
			args:      []string{"a.ipynb", "--mode", "custom"},
			wantCode:  ExitSuccess,
			wantMode:  nb2html.ModeCustom,
			wantCalls: 1,
		},
		{
			name:      "mode from environment",
			args:      []string{"convert", "a.ipynb"},
			vars:      map[string]string{"NB2HTML_MODE": "custom"},
			wantCode:  ExitSuccess,
			wantMode:  nb2html.ModeCustom,
			wantCalls: 1,
		},
		{
			name:      "flag beats environment",
			args:      []string{"convert", "-m", "simple", "a.ipynb"},
			vars:      map[string]string{"NB2HTML_MODE": "custom"},
			wantCode:  ExitSuccess,
			wantMode:  nb2html.ModeSimple,
			wantCalls: 1,
		},
		{
			name:      "several notebooks",
			args:      []string{"convert", "a.ipynb", "b.ipynb"},
			wantCode:  ExitSuccess,
			wantMode:  nb2html.ModeSimple,
			wantCalls: 2,
		},
		{name: "no input", args: []string{"convert"}, wantCode: ExitUsage, wantStderr: "no input notebook"},
		{name: "unknown flag", args: []string{"convert", "--bogus", "a.ipynb"}, wantCode: ExitUsage},
		{name: "invalid mode", args: []string{"convert", "-m", "fancy", "a.ipynb"}, wantCode: ExitUsage},
		{
			name:       "output with several inputs",
			args:       []string{"convert", "-o", "x.html", "a.ipynb", "b.ipynb"},
			wantCode:   ExitUsage,
			wantStderr: "--output-dir",
		},
		{
			name:       "missing jupyter",
			args:       []string{"convert", "a.ipynb"},
			convErr:    fmt.Errorf("%w: jupyter", nb2html.ErrDependencyMissing),
			wantCode:   ExitDependency,
			wantStderr: "hint: install with: pip install nbconvert",
			wantCalls:  1,
			wantMode:   nb2html.ModeSimple,
		},
		{
			name:       "nbconvert failure",
			args:       []string{"convert", "a.ipynb"},
			convErr:    &nb2html.ProcessError{Command: []string{"jupyter", "nbconvert"}, ExitCode: 1, Stderr: "NoSuchKernel: python9"},
			wantCode:   ExitProcess,
			wantStderr: "kernel is not installed",
			wantCalls:  1,
			wantMode:   nb2html.ModeSimple,
		},
		{
			name:       "missing body",
			args:       []string{"convert", "a.ipynb"},
			convErr:    nb2html.ErrBodyMarkerNotFound,
			wantCode:   ExitProcess,
			wantStderr: "--on-missing-body append",
			wantCalls:  1,
			wantMode:   nb2html.ModeSimple,
		},
		{
			name:       "unknown env var is reported",
			args:       []string{"version"},
			vars:       map[string]string{"NB2HTML_MODDE": "custom"},
			wantCode:   ExitSuccess,
			wantStderr: "unknown environment variable NB2HTML_MODDE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := &fakeConverter{err: tt.convErr}
			env, stdout, stderr := testEnv(tt.vars, conv)

			code := runMain(append([]string{"nb2html"}, tt.args...), env)

			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want to contain %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want to contain %q", stderr, tt.wantStderr)
			}

			calls := conv.getCalls()
			if len(calls) != tt.wantCalls {
				t.Fatalf("Convert() called %d times, want %d", len(calls), tt.wantCalls)
			}
			for _, c := range calls {
				if c.mode != tt.wantMode {
					t.Errorf("mode = %q, want %q", c.mode, tt.wantMode)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_OutputDir - Output path derivation
// ---------------------------------------------------------------------------

func TestRunMain_OutputDir(t *testing.T) {
	t.Parallel()

	conv := &fakeConverter{}
	env, _, _ := testEnv(nil, conv)

	code := runMain([]string{"nb2html", "convert", "--output-dir", "out", "-m", "custom", filepath.Join("nb", "eval.ipynb")}, env)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d", code, ExitSuccess)
	}
	calls := conv.getCalls()
	if len(calls) != 1 {
		t.Fatalf("Convert() called %d times, want 1", len(calls))
	}
	if want := filepath.Join("out", "eval_custom.html"); calls[0].output != want {
		t.Errorf("output = %q, want %q", calls[0].output, want)
	}
	if !conv.closed {
		t.Error("converter was not closed")
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Quiet - Quiet suppresses the report
// ---------------------------------------------------------------------------

func TestRunMain_Quiet(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(nil, &fakeConverter{})

	if code := runMain([]string{"nb2html", "convert", "-q", "a.ipynb"}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d", code, ExitSuccess)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty with --quiet", stdout)
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Hints per failure family
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing body", fmt.Errorf("a.ipynb: %w", nb2html.ErrBodyMarkerNotFound), "--on-missing-body"},
		{"timeout", fmt.Errorf("a.ipynb: %w", context.DeadlineExceeded), "--timeout"},
		{"config search", fmt.Errorf("loading config: %w: tried a.yaml, go-nb2html/a.yaml", config.ErrConfigNotFound), "create go-nb2html/a.yaml"},
		{"io", nb2html.ErrIO, "writable"},
		{
			"missing custom launcher",
			fmt.Errorf("a.ipynb: %w", &nb2html.DependencyError{Binary: "/opt/x/jupyter", Err: errors.New("not found")}),
			"check --jupyter /opt/x/jupyter",
		},
		{
			"missing default launcher",
			&nb2html.DependencyError{Binary: "jupyter", Err: errors.New("not found")},
			"--mode custom",
		},
		{"unrelated", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want to contain %q", got, tt.want)
			}
		})
	}
}
