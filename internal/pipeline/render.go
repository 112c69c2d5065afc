package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-nb2html/internal/notebook"
)

// Sentinel errors for notebook page rendering.
var (
	ErrTemplateParse  = errors.New("notebook template parsing failed")
	ErrTemplateRender = errors.New("notebook template rendering failed")
)

// Payload kinds returned by the template's payload function.
const (
	PayloadHTML  = "html"
	PayloadImage = "image"
	PayloadText  = "text"
)

// Payload is the output representation chosen for display.
type Payload struct {
	Kind string
	MIME string
	Data string
}

// PageData is the root value the notebook template executes against.
type PageData struct {
	Title        string
	Notebook     *notebook.Notebook
	Language     string
	HighlightCSS template.CSS
}

// RenderOptions controls how cells are turned into HTML.
type RenderOptions struct {
	Highlight      bool   // Chroma highlighting for code cells and fenced blocks
	HighlightStyle string // Chroma style name; empty selects DefaultHighlightStyle
	Sanitize       bool   // run output HTML and markdown through bluemonday
	SourceDir      string // notebook directory for relative image paths
}

// NotebookRenderer executes the notebook page template.
type NotebookRenderer struct {
	tmpl        *template.Template
	opts        RenderOptions
	markdown    MarkdownConverter
	highlighter *CodeHighlighter
	sanitizer   *Sanitizer
	images      ImageSources
}

// NewNotebookRenderer parses tmplContent with the renderer's function map.
func NewNotebookRenderer(tmplContent string, opts RenderOptions) (*NotebookRenderer, error) {
	r := &NotebookRenderer{
		opts:        opts,
		markdown:    NewGoldmarkConverter(opts.Highlight),
		highlighter: NewCodeHighlighter(opts.HighlightStyle),
		sanitizer:   NewSanitizer(),
		images:      ImageSources{SourceDir: opts.SourceDir},
	}

	tmpl, err := template.New("notebook").Funcs(r.funcs(context.Background(), "")).Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Render produces the complete HTML page for nb.
func (r *NotebookRenderer) Render(ctx context.Context, nb *notebook.Notebook, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	language := nb.Language()
	tmpl, err := r.tmpl.Clone()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	tmpl.Funcs(r.funcs(ctx, language))

	data := PageData{Title: title, Notebook: nb, Language: language}
	if r.opts.Highlight {
		css, err := r.highlighter.CSS()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
		}
		data.HighlightCSS = template.CSS(css) // #nosec G203 -- generated by Chroma
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

// funcs binds the template helpers to one rendering.
func (r *NotebookRenderer) funcs(ctx context.Context, language string) template.FuncMap {
	return template.FuncMap{
		"prompt": prompt,
		"join":   strings.Join,
		"ansi":   StripANSI,
		"payload": func(o notebook.Output) *Payload {
			return choosePayload(o)
		},
		"dataURI": func(mime, data string) template.URL {
			return template.URL(DataURI(mime, data)) // #nosec G203 -- base64 payload from the notebook
		},
		"trusted": func(s string) template.HTML {
			return template.HTML(r.clean(s)) // #nosec G203 -- sanitized when enabled
		},
		"highlight": func(code string) (template.HTML, error) {
			if !r.opts.Highlight {
				return template.HTML(PlainCode(code)), nil // #nosec G203 -- escaped
			}
			out, err := r.highlighter.Highlight(code, language)
			return template.HTML(out), err // #nosec G203 -- generated by Chroma
		},
		"markdown": func(c notebook.Cell) (template.HTML, error) {
			out, err := r.markdown.ToHTML(ctx, c.Source.String())
			if err != nil {
				return "", err
			}
			out, err = r.images.Rewrite(out, c.Attachment)
			if err != nil {
				return "", err
			}
			return template.HTML(r.clean(out)), nil // #nosec G203 -- sanitized when enabled
		},
	}
}

func (r *NotebookRenderer) clean(s string) string {
	if r.opts.Sanitize {
		return r.sanitizer.Sanitize(s)
	}
	return s
}

// prompt formats an execution count. Cells never run, and a count of 0,
// show a blank prompt.
func prompt(count *int) string {
	if count == nil || *count == 0 {
		return " "
	}
	return fmt.Sprint(*count)
}

func choosePayload(o notebook.Output) *Payload {
	mime, data, ok := o.Preferred()
	if !ok {
		return nil
	}
	switch mime {
	case notebook.MIMEHTML:
		return &Payload{Kind: PayloadHTML, MIME: mime, Data: data}
	case notebook.MIMEPNG, notebook.MIMEJPEG:
		return &Payload{Kind: PayloadImage, MIME: mime, Data: data}
	default:
		return &Payload{Kind: PayloadText, MIME: mime, Data: data}
	}
}
