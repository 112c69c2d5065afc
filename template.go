package nb2html

import (
	"fmt"
	"os"

	"github.com/alnah/go-nb2html/internal/assets"
	"github.com/alnah/go-nb2html/internal/fileutil"
)

// Default output names.
const (
	DefaultTemplateFile = "collapsible_template.tmpl"
	DefaultSimpleSuffix = "_collapsible.html"
	DefaultCustomSuffix = "_custom.html"
)

// WriteTemplate writes the built-in custom-mode template to path and returns
// the path. An empty path selects DefaultTemplateFile in the working
// directory. Writing is idempotent: the file always holds the same bytes.
func WriteTemplate(path string) (string, error) {
	return writeTemplate(assets.NewEmbeddedLoader(), path)
}

// WriteTemplate writes the converter's template, honoring WithAssetPath.
func (c *Converter) WriteTemplate(path string) (string, error) {
	return writeTemplate(c.assets, path)
}

func writeTemplate(loader assets.AssetLoader, path string) (string, error) {
	if path == "" {
		path = DefaultTemplateFile
	}
	content, err := loader.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		return "", fmt.Errorf("%w: loading template: %v", ErrDependencyMissing, err)
	}

	if existing, err := os.ReadFile(path); err == nil && string(existing) == content { // #nosec G304 -- user-chosen output path
		return path, nil
	}
	if err := fileutil.WriteFileAtomic(path, []byte(content)); err != nil {
		return "", fmt.Errorf("%w: writing template %s: %v", ErrIO, path, err)
	}
	return path, nil
}
