package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
	logFile   string
}

// converterFlags configures the nbconvert process.
type converterFlags struct {
	jupyter       string
	nbconvertArgs []string
	timeout       string
}

// renderFlags configures custom-mode rendering.
type renderFlags struct {
	template  string
	highlight bool
	style     string
	sanitize  bool
	css       string
	assetPath string
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	pdf         bool
	size        string
	orientation string
	margin      float64
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common        commonFlags
	output        string
	outputDir     string
	mode          string
	onMissingBody string
	converter     converterFlags
	render        renderFlags
	page          pageFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logging")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
	fs.StringVar(&f.logFile, "log-file", "", "also write JSON logs to a rotating file")
}

// addConverterFlags adds nbconvert flags to a FlagSet.
func addConverterFlags(fs *flag.FlagSet, f *converterFlags) {
	fs.StringVar(&f.jupyter, "jupyter", "", "Jupyter launcher (default \"jupyter\")")
	fs.StringArrayVar(&f.nbconvertArgs, "nbconvert-arg", nil, "extra nbconvert argument (repeatable)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "conversion timeout (e.g., 90s, 10m)")
}

// addRenderFlags adds custom-mode flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.template, "template", "", "custom-mode template file (created if missing)")
	fs.BoolVar(&f.highlight, "highlight", false, "syntax-highlight code cells (custom mode)")
	fs.StringVar(&f.style, "style", "", "Chroma style for --highlight")
	fs.BoolVar(&f.sanitize, "sanitize", false, "strip scripts from rich outputs (custom mode)")
	fs.StringVar(&f.css, "css", "", "extra stylesheet added to the page")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding the built-in snippet and template")
}

// addPageFlags adds PDF flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.BoolVar(&f.pdf, "pdf", false, "also print the page to PDF (requires Chrome)")
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// newConvertFlagSet registers every convert flag on a fresh FlagSet.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (single input only)")
	fs.StringVar(&f.outputDir, "output-dir", "", "directory for generated files")
	fs.StringVarP(&f.mode, "mode", "m", "", "conversion mode: simple, custom")
	fs.StringVar(&f.onMissingBody, "on-missing-body", "", "when </body> is missing: fail, append")

	addCommonFlags(fs, &f.common)
	addConverterFlags(fs, &f.converter)
	addRenderFlags(fs, &f.render)
	addPageFlags(fs, &f.page)

	// Errors and help are reported by the caller.
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
