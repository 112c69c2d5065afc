package assets

import "errors"

// Sentinel errors for asset loading.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrSnippetNotFound  = errors.New("snippet not found")
	ErrInvalidAssetName = errors.New("invalid asset name") // separators, dots, or empty
	ErrInvalidBasePath  = errors.New("invalid asset directory")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("asset path leaves the asset directory")
)
