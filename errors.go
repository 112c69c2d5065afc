package nb2html

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-nb2html/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// ErrProcessFailed indicates the external converter exited unsuccessfully.
	ErrProcessFailed = errors.New("notebook converter failed")

	// ErrDependencyMissing indicates a required executable or asset is unavailable.
	ErrDependencyMissing = errors.New("required dependency is missing")

	// ErrParse indicates the notebook or template could not be parsed or executed.
	ErrParse = errors.New("parse failed")

	// ErrIO indicates a file could not be read or written.
	ErrIO = errors.New("file operation failed")

	// ErrBodyMarkerNotFound indicates the converter output has no </body> tag.
	ErrBodyMarkerNotFound = pipeline.ErrBodyMarkerNotFound

	// ErrInvalidInput indicates unusable arguments (wrong extension, bad mode).
	ErrInvalidInput = errors.New("invalid input")

	// PDF export errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// ErrInvalidAssetPath indicates the custom asset directory is unusable.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// ProcessError describes a failed nbconvert run.
type ProcessError struct {
	Command  []string
	ExitCode int // -1 when the process did not exit normally
	Stderr   string
}

func (e *ProcessError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no error output"
	}
	return fmt.Sprintf("%s: %s exited with code %d: %s", ErrProcessFailed, strings.Join(e.Command, " "), e.ExitCode, msg)
}

// Unwrap makes errors.Is(err, ErrProcessFailed) true.
func (e *ProcessError) Unwrap() error { return ErrProcessFailed }

// DependencyError reports an executable that could not be found.
type DependencyError struct {
	Binary string
	Err    error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDependencyMissing, e.Err)
}

// Unwrap makes errors.Is(err, ErrDependencyMissing) true.
func (e *DependencyError) Unwrap() error { return ErrDependencyMissing }
