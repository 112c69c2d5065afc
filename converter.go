package nb2html

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2html/internal/assets"
	"github.com/alnah/go-nb2html/internal/fileutil"
	"github.com/alnah/go-nb2html/internal/nbconvert"
	"github.com/alnah/go-nb2html/internal/notebook"
	"github.com/alnah/go-nb2html/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.SnippetInjector   = (*pipeline.SnippetInjection)(nil)
	_ pipeline.CSSInjector       = (*pipeline.CSSInjection)(nil)
	_ pipeline.MarkdownConverter = (*pipeline.GoldmarkConverter)(nil)
	_ assets.AssetLoader         = (*assets.AssetResolver)(nil)
)

// notebookExt is the only accepted input extension.
const notebookExt = ".ipynb"

// Converter turns notebooks into collapsible HTML pages.
// Create with NewConverter, and call Close when done if PDF export is enabled.
type Converter struct {
	cfg         converterConfig
	log         *zap.Logger
	runner      CommandRunner
	nbconvert   *nbconvert.Client
	assets      assets.AssetLoader
	injector    pipeline.SnippetInjector
	cssInjector pipeline.CSSInjector
	pdf         pdfRenderer
}

// NewConverter creates a Converter. No external program is run until a
// conversion starts.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:         converterConfig{timeout: DefaultTimeout},
		log:         zap.NewNop(),
		assets:      assets.NewEmbeddedLoader(),
		cssInjector: &pipeline.CSSInjection{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.page == nil {
		c.cfg.page = DefaultPageSettings()
	}
	if err := c.cfg.page.Validate(); err != nil {
		return nil, err
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assets = resolver
		c.log.Debug("asset directory", zap.String("path", c.cfg.assetPath), zap.Bool("override", resolver.HasCustomLoader()))
	}

	nbOpts := []nbconvert.Option{nbconvert.WithExtraArgs(c.cfg.extraArgs...)}
	if c.runner != nil {
		nbOpts = append(nbOpts, nbconvert.WithRunner(c.runner))
	}
	c.nbconvert = nbconvert.New(c.cfg.binary, nbOpts...)

	if c.injector == nil {
		c.injector = &pipeline.SnippetInjection{Policy: c.cfg.markerPolicy}
	}
	if c.cfg.pdf && c.pdf == nil {
		c.pdf = newRodRenderer(c.cfg.timeout)
	}
	return c, nil
}

// Close releases the PDF browser and the asset directory handle.
func (c *Converter) Close() error {
	var errs []error
	if c.pdf != nil {
		errs = append(errs, c.pdf.Close())
	}
	if closer, ok := c.assets.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

// Check reports whether everything mode needs is available. Custom mode
// has no external requirements.
func (c *Converter) Check(mode Mode) error {
	if mode != ModeSimple {
		return nil
	}
	if _, err := c.nbconvert.Check(); err != nil {
		return &DependencyError{Binary: c.nbconvert.Binary(), Err: err}
	}
	return nil
}

// Convert dispatches to ConvertSimple or ConvertCustom.
func (c *Converter) Convert(ctx context.Context, mode Mode, input, output string) (*Result, error) {
	switch mode {
	case ModeSimple, "":
		return c.ConvertSimple(ctx, input, output)
	case ModeCustom:
		return c.ConvertCustom(ctx, input, output)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, mode)
	}
}

// ConvertSimple runs nbconvert on input and injects the collapsible snippet
// before the closing </body> tag. An empty output selects
// <stem>_collapsible.html next to the notebook. Nothing is written when any
// step fails, including PDF export. Recovers from internal panics.
func (c *Converter) ConvertSimple(ctx context.Context, input, output string) (result *Result, err error) {
	defer recoverPanic(&err)
	start := time.Now()

	if output, err = prepare(input, output, DefaultSimpleSuffix); err != nil {
		return nil, err
	}
	if err := c.Check(ModeSimple); err != nil {
		return nil, err
	}
	snippet, err := c.assets.LoadSnippet(assets.DefaultSnippetName)
	if err != nil {
		return nil, fmt.Errorf("%w: loading snippet: %v", ErrDependencyMissing, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "nb2html-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating work directory: %v", ErrIO, err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	converted := filepath.Join(tmpDir, filepath.Base(output))
	c.log.Debug("running nbconvert", zap.String("binary", c.nbconvert.Binary()), zap.String("input", input))
	if err := c.nbconvert.ToHTML(ctx, input, converted); err != nil {
		return nil, mapNbconvertError(c.nbconvert.Binary(), err)
	}

	raw, err := os.ReadFile(converted) // #nosec G304 -- file created in our temp dir
	if err != nil {
		return nil, fmt.Errorf("%w: reading nbconvert output: %v", ErrIO, err)
	}

	page, placement, err := c.injector.InjectSnippet(ctx, string(raw), snippet)
	if err != nil {
		if errors.Is(err, pipeline.ErrBodyMarkerNotFound) {
			return nil, fmt.Errorf("%w in nbconvert output for %s", ErrBodyMarkerNotFound, input)
		}
		return nil, err
	}
	if placement == pipeline.PlacedAtEnd {
		c.log.Warn("no </body> tag in nbconvert output, snippet appended to end of document",
			zap.String("input", input))
	}

	result = &Result{Mode: ModeSimple, OutputPath: output, Placement: toPlacement(placement)}
	if err := c.finish(ctx, page, result); err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

// ConvertCustom renders input with the custom template. With
// WithTemplatePath the template there is used, and created if missing;
// otherwise DefaultTemplateFile is written next to output and used.
// An empty output selects <stem>_custom.html next to the notebook.
// Recovers from internal panics.
func (c *Converter) ConvertCustom(ctx context.Context, input, output string) (result *Result, err error) {
	defer recoverPanic(&err)
	start := time.Now()

	if output, err = prepare(input, output, DefaultCustomSuffix); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	nb, err := notebook.ReadFile(input)
	if err != nil {
		if errors.Is(err, notebook.ErrRead) {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	tmplPath, err := c.templateFor(output)
	if err != nil {
		return nil, err
	}
	tmplContent, err := os.ReadFile(tmplPath) // #nosec G304 -- user-chosen template path
	if err != nil {
		return nil, fmt.Errorf("%w: reading template: %v", ErrIO, err)
	}

	renderer, err := pipeline.NewNotebookRenderer(string(tmplContent), pipeline.RenderOptions{
		Highlight:      c.cfg.highlight,
		HighlightStyle: c.cfg.highlightStyle,
		Sanitize:       c.cfg.sanitize,
		SourceDir:      imageSourceDir(input, output),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, tmplPath, err)
	}

	page, err := renderer.Render(ctx, nb, pageTitle(nb, input))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, tmplPath, err)
	}

	result = &Result{
		Mode:         ModeCustom,
		OutputPath:   output,
		TemplatePath: tmplPath,
		CodeCells:    nb.CodeCells(),
	}
	if err := c.finish(ctx, page, result); err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

// finish applies the extra stylesheet, writes the page and exports the PDF.
func (c *Converter) finish(ctx context.Context, page string, result *Result) error {
	if c.cfg.css != "" {
		page = c.cssInjector.InjectCSS(ctx, page, c.cfg.css)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.pdf == nil {
		if err := fileutil.WriteFileAtomic(result.OutputPath, []byte(page)); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		c.logPage(result, len(page))
		return nil
	}

	// Print from a staged sibling; the page moves into place after the PDF.
	staged, err := fileutil.StageFile(result.OutputPath, []byte(page))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer func() { _ = os.Remove(staged) }()

	pdf, err := c.pdf.RenderFile(ctx, staged, c.cfg.page)
	if err != nil {
		return err
	}
	pdfPath := strings.TrimSuffix(result.OutputPath, filepath.Ext(result.OutputPath)) + ".pdf"
	if err := fileutil.WriteFileAtomic(pdfPath, pdf); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := os.Rename(staged, result.OutputPath); err != nil {
		_ = os.Remove(pdfPath)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	c.logPage(result, len(page))
	result.PDFPath = pdfPath
	c.log.Debug("wrote pdf", zap.String("output", pdfPath), zap.Int("bytes", len(pdf)))
	return nil
}

func (c *Converter) logPage(result *Result, n int) {
	result.Bytes = n
	c.log.Debug("wrote page",
		zap.String("mode", string(result.Mode)),
		zap.String("output", result.OutputPath),
		zap.Int("bytes", n))
}

// templateFor returns the template file custom mode renders with.
func (c *Converter) templateFor(output string) (string, error) {
	if c.cfg.templatePath != "" {
		if fileutil.FileExists(c.cfg.templatePath) {
			return c.cfg.templatePath, nil
		}
		c.log.Info("template not found, generating", zap.String("path", c.cfg.templatePath))
		return c.WriteTemplate(c.cfg.templatePath)
	}
	return c.WriteTemplate(filepath.Join(filepath.Dir(output), DefaultTemplateFile))
}

// prepare validates input and resolves the output path.
func prepare(input, output, suffix string) (string, error) {
	if err := fileutil.RequireExtension(input, notebookExt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !fileutil.FileExists(input) {
		return "", fmt.Errorf("%w: notebook not found: %s", ErrIO, input)
	}
	if output == "" {
		output = fileutil.DerivePath(input, suffix, "")
	}
	if filepath.Clean(output) == filepath.Clean(input) {
		return "", fmt.Errorf("%w: output would overwrite the notebook", ErrInvalidInput)
	}
	if dir := filepath.Dir(output); !isDir(dir) {
		return "", fmt.Errorf("%w: output directory does not exist: %s", ErrIO, dir)
	}
	return output, nil
}

// imageSourceDir returns the notebook directory when relative image paths
// would no longer resolve from the output location, or "" when they would.
func imageSourceDir(input, output string) string {
	inDir, err1 := filepath.Abs(filepath.Dir(input))
	outDir, err2 := filepath.Abs(filepath.Dir(output))
	if err1 != nil || err2 != nil || inDir == outDir {
		return ""
	}
	return inDir
}

// pageTitle prefers the notebook's own title over its file name.
func pageTitle(nb *notebook.Notebook, input string) string {
	if t := strings.TrimSpace(nb.Metadata.Title); t != "" {
		return t
	}
	return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
}

// mapNbconvertError translates runner failures into the package error set.
func mapNbconvertError(binary string, err error) error {
	var runErr *nbconvert.RunError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.As(err, &runErr):
		return &ProcessError{Command: runErr.Command, ExitCode: runErr.ExitCode, Stderr: runErr.Stderr}
	case errors.Is(err, nbconvert.ErrNotInstalled):
		return &DependencyError{Binary: binary, Err: err}
	default:
		return fmt.Errorf("%w: %v", ErrProcessFailed, err)
	}
}

func toPlacement(p pipeline.Placement) Placement {
	switch p {
	case pipeline.PlacedAtEnd:
		return PlacementAppended
	case pipeline.AlreadyPresent:
		return PlacementExisting
	default:
		return PlacementBeforeBody
	}
}

func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("internal error: %v", r)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
