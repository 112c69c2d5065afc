package assets

import "embed"

//go:embed templates/*.tmpl snippets/*.html
var builtin embed.FS

// NewEmbeddedLoader returns a loader over the assets compiled into the binary.
func NewEmbeddedLoader() *FSLoader {
	return &FSLoader{fsys: builtin}
}
