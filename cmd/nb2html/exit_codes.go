package main

import (
	"context"
	"errors"
	"os"

	"github.com/alnah/go-nb2html"
	"github.com/alnah/go-nb2html/internal/config"
	"github.com/alnah/go-nb2html/internal/logging"
)

// Exit codes for the nb2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Successful conversion
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or notebook/template that does not parse
	ExitIO         = 3 // File not found, permission denied
	ExitProcess    = 4 // nbconvert or browser failure, missing </body>
	ExitDependency = 5 // Jupyter or asset unavailable
)

// exitCodeFor returns the exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, nb2html.ErrDependencyMissing):
		return ExitDependency

	case errors.Is(err, nb2html.ErrProcessFailed),
		errors.Is(err, nb2html.ErrBodyMarkerNotFound),
		errors.Is(err, nb2html.ErrBrowserConnect),
		errors.Is(err, nb2html.ErrPageLoad),
		errors.Is(err, nb2html.ErrPDFGeneration),
		errors.Is(err, context.DeadlineExceeded):
		return ExitProcess

	case errors.Is(err, nb2html.ErrIO),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission),
		errors.Is(err, ErrReadCSS):
		return ExitIO

	case errors.Is(err, nb2html.ErrParse),
		errors.Is(err, nb2html.ErrInvalidInput),
		errors.Is(err, nb2html.ErrInvalidPageSize),
		errors.Is(err, nb2html.ErrInvalidOrientation),
		errors.Is(err, nb2html.ErrInvalidMargin),
		errors.Is(err, nb2html.ErrInvalidAssetPath),
		errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, config.ErrConfigParse),
		errors.Is(err, config.ErrFieldTooLong),
		errors.Is(err, config.ErrInvalidValue),
		errors.Is(err, logging.ErrInvalidLevel),
		errors.Is(err, logging.ErrInvalidFormat),
		errors.Is(err, ErrUsage),
		errors.Is(err, ErrNoInput):
		return ExitUsage
	}

	return ExitGeneral
}
