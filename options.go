package nb2html

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2html/internal/nbconvert"
	"github.com/alnah/go-nb2html/internal/pipeline"
)

// CommandRunner executes external commands. Tests substitute a fake.
type CommandRunner = nbconvert.CommandRunner

// MarkerPolicy decides what simple mode does when the page lacks </body>.
type MarkerPolicy = pipeline.MarkerPolicy

// Marker policies.
const (
	MarkerFail   = pipeline.MarkerFail
	MarkerAppend = pipeline.MarkerAppend
)

// ParseMarkerPolicy converts "fail" or "append" to a MarkerPolicy.
func ParseMarkerPolicy(s string) (MarkerPolicy, error) {
	p, err := pipeline.ParseMarkerPolicy(s)
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return p, nil
}

// DefaultTimeout bounds a whole conversion, nbconvert run included.
const DefaultTimeout = 5 * time.Minute

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	binary         string
	extraArgs      []string
	timeout        time.Duration
	assetPath      string
	markerPolicy   MarkerPolicy
	templatePath   string
	highlight      bool
	highlightStyle string
	sanitize       bool
	css            string
	pdf            bool
	page           *PageSettings
}

// WithRunner replaces the process runner used for nbconvert.
func WithRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.runner = r
	}
}

// WithBinary sets the Jupyter launcher, e.g. "/opt/conda/bin/jupyter".
func WithBinary(path string) Option {
	return func(c *Converter) {
		c.cfg.binary = path
	}
}

// WithExtraArgs passes additional arguments to nbconvert before the input path.
func WithExtraArgs(args ...string) Option {
	return func(c *Converter) {
		c.cfg.extraArgs = append(c.cfg.extraArgs, args...)
	}
}

// WithTimeout sets the conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("nb2html: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

// WithAssetPath overrides the embedded snippet and template with files from
// dir/snippets/collapsible.html and dir/templates/notebook.tmpl. Missing
// files fall back to the embedded versions.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithMarkerPolicy sets the behavior when nbconvert output has no </body>.
func WithMarkerPolicy(p MarkerPolicy) Option {
	return func(c *Converter) {
		c.cfg.markerPolicy = p
	}
}

// WithTemplatePath makes custom mode use the template at path, generating
// it there first when it does not exist.
func WithTemplatePath(path string) Option {
	return func(c *Converter) {
		c.cfg.templatePath = path
	}
}

// WithHighlight enables Chroma syntax highlighting in custom mode.
func WithHighlight(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.highlight = enabled
	}
}

// WithHighlightStyle selects the Chroma style, e.g. "monokai".
func WithHighlightStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = name
	}
}

// WithSanitize filters rich outputs and markdown through bluemonday.
// Scripts in text/html outputs are removed.
func WithSanitize(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.sanitize = enabled
	}
}

// WithCSS adds a stylesheet to every generated page.
func WithCSS(css string) Option {
	return func(c *Converter) {
		c.cfg.css = css
	}
}

// WithPDF also prints each page to PDF with headless Chrome.
func WithPDF(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.pdf = enabled
	}
}

// WithPageSettings sets the PDF paper size, orientation and margin.
func WithPageSettings(p *PageSettings) Option {
	return func(c *Converter) {
		c.cfg.page = p
	}
}
