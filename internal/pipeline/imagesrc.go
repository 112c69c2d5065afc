package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const attachmentScheme = "attachment:"

// AttachmentFunc resolves a markdown cell attachment to its MIME type and
// base64 payload.
type AttachmentFunc func(name string) (mime, payload string, ok bool)

// ImageSources rewrites <img src> values in a rendered markdown fragment.
type ImageSources struct {
	// SourceDir is the notebook's directory. When set, relative image paths
	// become absolute file:// URLs so the page still resolves them after
	// being written elsewhere or printed to PDF.
	SourceDir string
}

// Rewrite replaces "attachment:<name>" sources with data URIs from attach
// and, when SourceDir is set, relative paths with file:// URLs.
// Fragments without images are returned unchanged.
func (s ImageSources) Rewrite(fragment string, attach AttachmentFunc) (string, error) {
	if !strings.Contains(fragment, "<img") {
		return fragment, nil
	}

	sourceDir := ""
	if s.SourceDir != "" {
		abs, err := filepath.Abs(s.SourceDir)
		if err != nil {
			return "", err
		}
		sourceDir = abs
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	})
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		rewriteImages(n, sourceDir, attach)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteImages(n *html.Node, sourceDir string, attach AttachmentFunc) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key == "src" {
				n.Attr[i].Val = resolveImage(attr.Val, sourceDir, attach)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteImages(c, sourceDir, attach)
	}
}

func resolveImage(src, sourceDir string, attach AttachmentFunc) string {
	if name, ok := strings.CutPrefix(src, attachmentScheme); ok {
		if attach == nil {
			return src
		}
		if mime, payload, found := attach(name); found {
			return DataURI(mime, payload)
		}
		return src
	}

	if sourceDir == "" || !isRelativePath(src) {
		return src
	}

	absPath := filepath.Join(sourceDir, filepath.FromSlash(src))
	if !isPathUnderDir(absPath, sourceDir) {
		return src
	}
	return pathToFileURL(absPath)
}

// DataURI builds a data: URI from a MIME type and base64 payload.
// nbformat wraps long base64 strings, so embedded newlines are dropped.
func DataURI(mime, payload string) string {
	return "data:" + mime + ";base64," + strings.NewReplacer("\n", "", "\r", "").Replace(payload)
}

// isRelativePath reports whether src is a relative filesystem path.
func isRelativePath(src string) bool {
	if src == "" || strings.HasPrefix(src, "#") || strings.HasPrefix(src, "//") {
		return false
	}
	if u, err := url.Parse(src); err != nil || u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(src) && !strings.HasPrefix(src, "/")
}

// isPathUnderDir reports whether absPath lies inside dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir) + string(filepath.Separator)
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
