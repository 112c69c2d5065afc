package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// Built-in asset names.
const (
	DefaultTemplateName = "notebook"
	DefaultSnippetName  = "collapsible"
)

// AssetLoader defines the contract for loading page templates and snippets.
type AssetLoader interface {
	// LoadTemplate loads a page template by name (without .tmpl extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)

	// LoadSnippet loads an HTML snippet by name (without .html extension).
	// Returns ErrSnippetNotFound if the snippet doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadSnippet(name string) (string, error)
}

// Kind is an asset family: where its files live and how they are named.
type Kind struct {
	dir     string
	ext     string
	missing error
}

// Asset kinds.
var (
	Template = Kind{dir: "templates", ext: ".tmpl", missing: ErrTemplateNotFound}
	Snippet  = Kind{dir: "snippets", ext: ".html", missing: ErrSnippetNotFound}
)

func (k Kind) file(name string) string {
	return path.Join(k.dir, name+k.ext)
}

// FSLoader reads assets from a directory tree laid out as templates/ and snippets/.
type FSLoader struct {
	fsys fs.FS
	// readErr maps a read failure that is not fs.ErrNotExist to a sentinel.
	readErr func(file string, err error) error
	close   func() error
}

// Load returns the content of the named asset of kind k.
func (l *FSLoader) Load(k Kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	file := k.file(name)
	content, err := fs.ReadFile(l.fsys, file)
	if err == nil {
		return string(content), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %q", k.missing, name)
	}
	if l.readErr != nil {
		return "", fmt.Errorf("%w: %v", l.readErr(file, err), err)
	}
	return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
}

// LoadTemplate loads templates/{name}.tmpl.
func (l *FSLoader) LoadTemplate(name string) (string, error) { return l.Load(Template, name) }

// LoadSnippet loads snippets/{name}.html.
func (l *FSLoader) LoadSnippet(name string) (string, error) { return l.Load(Snippet, name) }

// Close releases the directory handle of a filesystem loader.
func (l *FSLoader) Close() error {
	if l.close == nil {
		return nil
	}
	return l.close()
}

var _ AssetLoader = (*FSLoader)(nil)
