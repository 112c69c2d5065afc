package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrBodyMarkerNotFound indicates the document has no closing </body> tag.
var ErrBodyMarkerNotFound = errors.New("closing </body> tag not found")

// ErrInvalidMarkerPolicy indicates an unknown MarkerPolicy name.
var ErrInvalidMarkerPolicy = errors.New("invalid marker policy")

const bodyClose = "</body>"

// MarkerPolicy decides what happens when a document lacks </body>.
type MarkerPolicy int

const (
	// MarkerFail rejects the document with ErrBodyMarkerNotFound.
	MarkerFail MarkerPolicy = iota
	// MarkerAppend appends the snippet to the end of the document.
	MarkerAppend
)

// ParseMarkerPolicy converts "fail" or "append" to a MarkerPolicy.
// An empty string selects MarkerFail.
func ParseMarkerPolicy(s string) (MarkerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return MarkerFail, nil
	case "append":
		return MarkerAppend, nil
	default:
		return MarkerFail, fmt.Errorf("%w: %q (expected fail or append)", ErrInvalidMarkerPolicy, s)
	}
}

func (p MarkerPolicy) String() string {
	if p == MarkerAppend {
		return "append"
	}
	return "fail"
}

// Placement reports where a snippet ended up.
type Placement int

const (
	// PlacedBeforeBody means the snippet was inserted before the last </body>.
	PlacedBeforeBody Placement = iota
	// PlacedAtEnd means </body> was missing and the snippet was appended.
	PlacedAtEnd
	// AlreadyPresent means the document already carried the snippet.
	AlreadyPresent
)

// SnippetInjector defines the contract for snippet injection into HTML.
type SnippetInjector interface {
	InjectSnippet(ctx context.Context, htmlContent, snippet string) (string, Placement, error)
}

// SnippetInjection inserts markup immediately before the closing </body> tag.
type SnippetInjection struct {
	Policy MarkerPolicy
}

// InjectSnippet inserts snippet before the last </body> (case-insensitive).
// Injection is idempotent: a document already containing the whole snippet
// is returned unchanged. Notebook output that merely shares the snippet's
// attributes does not count.
func (s *SnippetInjection) InjectSnippet(ctx context.Context, htmlContent, snippet string) (string, Placement, error) {
	if err := ctx.Err(); err != nil {
		return "", PlacedBeforeBody, err
	}
	if snippet == "" || alreadyInjected(htmlContent, snippet) {
		return htmlContent, AlreadyPresent, nil
	}

	if idx := lastIndexFold(htmlContent, bodyClose); idx != -1 {
		return htmlContent[:idx] + snippet + htmlContent[idx:], PlacedBeforeBody, nil
	}

	if s.Policy == MarkerAppend {
		return htmlContent + snippet, PlacedAtEnd, nil
	}
	return "", PlacedBeforeBody, ErrBodyMarkerNotFound
}

func alreadyInjected(htmlContent, snippet string) bool {
	return strings.Contains(htmlContent, strings.TrimSpace(snippet))
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects a user stylesheet as a <style> block.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, after <body>, or at the
// start of the document, in that order of preference.
func (c *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"

	if idx := indexFold(htmlContent, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := indexFold(htmlContent, "<body"); idx != -1 {
		if closeIdx := strings.IndexByte(htmlContent[idx:], '>'); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// indexFold is strings.Index with ASCII case folding. Offsets refer to s
// itself, which strings.ToLower does not guarantee for non-ASCII input.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// lastIndexFold is strings.LastIndex with ASCII case folding.
func lastIndexFold(s, substr string) int {
	n := len(substr)
	for i := len(s) - n; i >= 0; i-- {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}
