package pipeline

import (
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the Chroma style used for generated CSS.
const DefaultHighlightStyle = "friendly"

// CodeHighlighter renders code cell sources as class-annotated HTML.
type CodeHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewCodeHighlighter creates a highlighter for the named Chroma style.
// Unknown names fall back to Chroma's default style.
func NewCodeHighlighter(styleName string) *CodeHighlighter {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	return &CodeHighlighter{
		style:     styles.Get(styleName),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// Highlight returns code as highlighted HTML for the given language.
// A language Chroma does not know yields escaped plain text in a <pre>.
func (h *CodeHighlighter) Highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return PlainCode(code), nil
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s code: %w", language, err)
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("formatting %s code: %w", language, err)
	}
	return buf.String(), nil
}

// CSS returns the stylesheet matching the classes emitted by Highlight.
func (h *CodeHighlighter) CSS() (string, error) {
	var buf strings.Builder
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}

// PlainCode returns code escaped inside a <pre> element.
func PlainCode(code string) string {
	return "<pre>" + html.EscapeString(code) + "</pre>"
}
