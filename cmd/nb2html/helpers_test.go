package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-nb2html"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake converter and environment
// ---------------------------------------------------------------------------

type convertCall struct {
	mode   nb2html.Mode
	input  string
	output string
}

// fakeConverter records calls and returns canned results.
type fakeConverter struct {
	mu       sync.Mutex
	calls    []convertCall
	err      error
	closed   bool
	template string
}

func (f *fakeConverter) Convert(_ context.Context, mode nb2html.Mode, input, output string) (*nb2html.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, convertCall{mode: mode, input: input, output: output})
	if f.err != nil {
		return nil, f.err
	}
	if output == "" {
		output = input + ".html"
	}
	return &nb2html.Result{
		Mode:       mode,
		OutputPath: output,
		Placement:  nb2html.PlacementBeforeBody,
		CodeCells:  2,
		Bytes:      2048,
		Duration:   150 * time.Millisecond,
	}, nil
}

func (f *fakeConverter) WriteTemplate(path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if path == "" {
		path = nb2html.DefaultTemplateFile
	}
	f.template = path
	return path, nil
}

func (f *fakeConverter) Close() error {
	f.closed = true
	return nil
}

func (f *fakeConverter) getCalls() []convertCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]convertCall(nil), f.calls...)
}

// testEnv returns an Environment backed by buffers, vars and conv.
// A nil conv selects the real converter.
func testEnv(vars map[string]string, conv *fakeConverter) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(key string) string { return vars[key] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewRunID: func() string { return "run-test" },
		NewConverter: func(opts ...nb2html.Option) (Converter, error) {
			if conv == nil {
				return nb2html.NewConverter(opts...)
			}
			return conv, nil
		},
	}
	return env, stdout, stderr
}

// writeFile writes content under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
