package assets

import (
	"errors"
	"io"
)

// AssetResolver layers an optional asset directory over the built-in assets.
// An asset missing from the directory is taken from the binary; any other
// failure (bad name, unreadable file, escaping link) is returned as is.
type AssetResolver struct {
	layers []*FSLoader // highest priority first, built-in last
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if customBasePath != "" {
		custom, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.layers = append(r.layers, custom)
	}
	r.layers = append(r.layers, NewEmbeddedLoader())
	return r, nil
}

// Load returns the first layer's copy of the named asset.
func (r *AssetResolver) Load(k Kind, name string) (string, error) {
	var err error
	for _, layer := range r.layers {
		var content string
		if content, err = layer.Load(k, name); err == nil {
			return content, nil
		}
		if !errors.Is(err, k.missing) {
			return "", err
		}
	}
	return "", err
}

// LoadTemplate loads a page template, preferring the asset directory.
func (r *AssetResolver) LoadTemplate(name string) (string, error) { return r.Load(Template, name) }

// LoadSnippet loads a snippet, preferring the asset directory.
func (r *AssetResolver) LoadSnippet(name string) (string, error) { return r.Load(Snippet, name) }

// HasCustomLoader returns true if an asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return len(r.layers) > 1
}

// Close releases the asset directory.
func (r *AssetResolver) Close() error {
	var errs []error
	for _, layer := range r.layers {
		errs = append(errs, layer.Close())
	}
	return errors.Join(errs...)
}

var (
	_ AssetLoader = (*AssetResolver)(nil)
	_ io.Closer   = (*AssetResolver)(nil)
)
