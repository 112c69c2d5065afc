package main

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/alnah/go-nb2html"
)

// Converter is the part of *nb2html.Converter the CLI drives.
type Converter interface {
	Convert(ctx context.Context, mode nb2html.Mode, input, output string) (*nb2html.Result, error)
	WriteTemplate(path string) (string, error)
	Close() error
}

var _ Converter = (*nb2html.Converter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout       io.Writer
	Stderr       io.Writer
	Getenv       func(string) string
	Environ      func() []string
	NewRunID     func() string
	NewConverter func(opts ...nb2html.Option) (Converter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getenv:   os.Getenv,
		Environ:  os.Environ,
		NewRunID: uuid.NewString,
		NewConverter: func(opts ...nb2html.Option) (Converter, error) {
			conv, err := nb2html.NewConverter(opts...)
			if err != nil {
				return nil, err
			}
			return conv, nil
		},
	}
}
