package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// NewFilesystemLoader opens basePath as an asset directory. Reads go through
// an os.Root, so neither ".." nor a symlink can reach outside basePath.
// Returns ErrInvalidBasePath if the path is not a readable directory.
func NewFilesystemLoader(basePath string) (*FSLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	info, err := os.Stat(absPath)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open directory: %v", ErrInvalidBasePath, err)
	}

	return &FSLoader{
		fsys: root.FS(),
		readErr: func(file string, _ error) error {
			// os.Root refuses links that leave the tree; name that case.
			if li, err := root.Lstat(filepath.FromSlash(file)); err == nil && li.Mode()&fs.ModeSymlink != 0 {
				return ErrPathTraversal
			}
			return ErrAssetRead
		},
		close: root.Close,
	}, nil
}
