package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alnah/go-nb2html"
	"github.com/alnah/go-nb2html/internal/config"
	"github.com/alnah/go-nb2html/internal/fileutil"
	"github.com/alnah/go-nb2html/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage   = errors.New("invalid usage")
	ErrNoInput = errors.New("no input notebook specified")
	ErrReadCSS = errors.New("failed to read CSS file")
)

// runConvert converts every positional notebook in order and stops at the
// first failure.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printConvertUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(inputs) == 0 {
		return ErrNoInput
	}
	if flags.output != "" && len(inputs) > 1 {
		return fmt.Errorf("%w: --output accepts a single notebook, use --output-dir", ErrUsage)
	}

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	mode, err := nb2html.ParseMode(cfg.Output.Mode)
	if err != nil {
		return err
	}
	opts, err := buildOptions(cfg, logger)
	if err != nil {
		return err
	}

	conv, err := env.NewConverter(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	for _, input := range inputs {
		output := resolveOutputPath(input, flags.output, cfg.Output.DefaultDir, mode)
		result, err := conv.Convert(ctx, mode, input, output)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		logger.Debug("converted",
			zap.String("input", input),
			zap.String("output", result.OutputPath),
			zap.Duration("duration", result.Duration))
		if !flags.common.quiet {
			printResult(env.Stdout, result)
		}
	}
	return nil
}

// resolveConfig loads the config file and layers env vars and flags over it.
func resolveConfig(flags *convertFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	cfg := config.DefaultConfig()
	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.mode != "" {
		cfg.Output.Mode = flags.mode
	}
	if flags.outputDir != "" {
		cfg.Output.DefaultDir = flags.outputDir
	}
	if flags.onMissingBody != "" {
		cfg.Inject.OnMissingBody = flags.onMissingBody
	}

	if flags.converter.jupyter != "" {
		cfg.Converter.Binary = flags.converter.jupyter
	}
	if len(flags.converter.nbconvertArgs) > 0 {
		cfg.Converter.ExtraArgs = flags.converter.nbconvertArgs
	}
	if flags.converter.timeout != "" {
		cfg.Converter.Timeout = flags.converter.timeout
	}

	if flags.render.template != "" {
		cfg.Template.Path = flags.render.template
	}
	if flags.render.highlight {
		cfg.Render.Highlight = true
	}
	if flags.render.style != "" {
		cfg.Render.Style = flags.render.style
	}
	if flags.render.sanitize {
		cfg.Render.Sanitize = true
	}
	if flags.render.css != "" {
		cfg.Inject.CSS = flags.render.css
	}
	if flags.render.assetPath != "" {
		cfg.Assets.BasePath = flags.render.assetPath
	}

	if flags.page.pdf {
		cfg.PDF.Enabled = true
	}
	if flags.page.size != "" {
		cfg.PDF.PageSize = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.PDF.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.PDF.Margin = flags.page.margin
	}

	switch {
	case flags.common.verbose:
		cfg.Log.Level = "debug"
	case flags.common.quiet:
		cfg.Log.Level = "error"
	}
	if flags.common.logFormat != "" {
		cfg.Log.Format = flags.common.logFormat
	}
	if flags.common.logFile != "" {
		cfg.Log.File = flags.common.logFile
	}
}

// newLogger builds the run's logger, tagged with a fresh run id.
func newLogger(cfg *config.Config, env *Environment) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log, env.Stderr)
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("run", env.NewRunID())), nil
}

// buildOptions translates the effective config into converter options.
func buildOptions(cfg *config.Config, logger *zap.Logger) ([]nb2html.Option, error) {
	policy, err := nb2html.ParseMarkerPolicy(cfg.Inject.OnMissingBody)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	opts := []nb2html.Option{
		nb2html.WithLogger(logger),
		nb2html.WithBinary(cfg.Converter.Binary),
		nb2html.WithExtraArgs(cfg.Converter.ExtraArgs...),
		nb2html.WithMarkerPolicy(policy),
		nb2html.WithTemplatePath(cfg.Template.Path),
		nb2html.WithHighlight(cfg.Render.Highlight),
		nb2html.WithHighlightStyle(cfg.Render.Style),
		nb2html.WithSanitize(cfg.Render.Sanitize),
		nb2html.WithAssetPath(cfg.Assets.BasePath),
	}
	if timeout > 0 {
		opts = append(opts, nb2html.WithTimeout(timeout))
	}

	if cfg.Inject.CSS != "" {
		css, err := os.ReadFile(cfg.Inject.CSS) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		opts = append(opts, nb2html.WithCSS(string(css)))
	}

	if cfg.PDF.Enabled {
		page := nb2html.DefaultPageSettings()
		if cfg.PDF.PageSize != "" {
			page.Size = strings.ToLower(cfg.PDF.PageSize)
		}
		if cfg.PDF.Orientation != "" {
			page.Orientation = strings.ToLower(cfg.PDF.Orientation)
		}
		if cfg.PDF.Margin != 0 {
			page.Margin = cfg.PDF.Margin
		}
		opts = append(opts, nb2html.WithPDF(true), nb2html.WithPageSettings(page))
	}
	return opts, nil
}

// resolveOutputPath returns the explicit output, a path in outputDir, or ""
// to let the converter place the file next to the notebook.
func resolveOutputPath(input, output, outputDir string, mode nb2html.Mode) string {
	if output != "" {
		return output
	}
	if outputDir == "" {
		return ""
	}
	suffix := nb2html.DefaultSimpleSuffix
	if mode == nb2html.ModeCustom {
		suffix = nb2html.DefaultCustomSuffix
	}
	return fileutil.DerivePath(input, suffix, outputDir)
}

// printResult reports a finished conversion and how to use the page.
func printResult(w io.Writer, r *nb2html.Result) {
	ok := color.New(color.FgGreen, color.Bold)
	ok.Fprint(w, "✓ ")
	fmt.Fprintf(w, "%s (%s, %s)\n", r.OutputPath, humanize.Bytes(uint64(r.Bytes)), r.Duration.Round(time.Millisecond))

	if r.Placement == nb2html.PlacementAppended {
		color.New(color.FgYellow).Fprintln(w, "  no </body> tag found, script appended to the end of the file")
	}
	if r.TemplatePath != "" {
		fmt.Fprintf(w, "  template: %s\n", r.TemplatePath)
	}
	if r.PDFPath != "" {
		fmt.Fprintf(w, "  pdf: %s\n", r.PDFPath)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  1. Open %s in your browser\n", filepath.Base(r.OutputPath))
	fmt.Fprintln(w, "  2. Click the button above each code block to show or hide it")
	fmt.Fprintln(w, "  3. Use the buttons at the top to expand or collapse all code at once")
}
