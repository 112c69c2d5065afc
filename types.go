package nb2html

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects the conversion strategy.
type Mode string

const (
	// ModeSimple post-processes `jupyter nbconvert --to html` output.
	ModeSimple Mode = "simple"
	// ModeCustom renders the notebook JSON with an editable template.
	ModeCustom Mode = "custom"
)

// ParseMode converts a case-insensitive mode name. Empty selects ModeSimple.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSimple:
		return ModeSimple, nil
	case ModeCustom:
		return ModeCustom, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q (expected simple or custom)", ErrInvalidInput, s)
	}
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns US Letter portrait with half-inch margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid. A nil receiver is valid.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if _, _, ok := paperSize(p.Size); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// dimensions returns paper width and height in inches, swapped for landscape.
func (p *PageSettings) dimensions() (width, height float64) {
	width, height, _ = paperSize(p.Size)
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return height, width
	}
	return width, height
}

func paperSize(size string) (width, height float64, ok bool) {
	switch strings.ToLower(size) {
	case PageSizeLetter:
		return 8.5, 11, true
	case PageSizeA4:
		return 8.27, 11.69, true
	case PageSizeLegal:
		return 8.5, 14, true
	}
	return 0, 0, false
}

// Placement reports where the collapsible snippet was put in simple mode.
type Placement string

const (
	PlacementBeforeBody Placement = "before-body"
	PlacementAppended   Placement = "appended"
	PlacementExisting   Placement = "already-present"
	PlacementNone       Placement = "" // custom mode carries its own controls
)

// Result describes a finished conversion.
type Result struct {
	Mode         Mode
	OutputPath   string
	TemplatePath string // custom mode only
	PDFPath      string // empty unless PDF export is enabled
	Placement    Placement
	CodeCells    int
	Bytes        int
	Duration     time.Duration
}
