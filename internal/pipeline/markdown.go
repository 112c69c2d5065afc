package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdownConversion indicates a markdown cell could not be rendered.
var ErrMarkdownConversion = errors.New("markdown conversion failed")

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// MarkdownConverter abstracts markdown cell rendering.
type MarkdownConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter renders markdown cells to HTML fragments.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM and footnotes.
// Fenced code blocks are highlighted with CSS classes when highlightCode is set.
//
// Raw HTML is passed through: notebooks routinely embed it in markdown cells,
// and nbconvert renders it too. Use a Sanitizer for untrusted notebooks.
func NewGoldmarkConverter(highlightCode bool) *GoldmarkConverter {
	extensions := []goldmark.Extender{
		extension.GFM,
		extension.Footnote,
	}
	if highlightCode {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts markdown to an HTML fragment.
// Goldmark has no context support, so conversion runs in a goroutine and the
// caller stops waiting when ctx is done.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(crlfOrCR.ReplaceAllString(content, "\n")), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrMarkdownConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
