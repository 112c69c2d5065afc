// Package codec decodes and encodes configuration documents, isolating the
// YAML and TOML libraries from callers.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Format identifies a configuration syntax.
type Format string

// Supported formats.
const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// MaxInputSize limits configuration input to prevent memory exhaustion (1MB).
var MaxInputSize = 1 << 20

// Sentinel errors for codec operations.
var (
	ErrEmptyData         = errors.New("codec: nil or empty data")
	ErrNilDestination    = errors.New("codec: nil destination pointer")
	ErrInputTooLarge     = errors.New("codec: input exceeds maximum size")
	ErrUnsupportedFormat = errors.New("codec: unsupported format")
)

// FormatFromPath picks a format from the file extension (.yaml, .yml, .toml).
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case YAML, TOML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// UnmarshalStrict decodes data into v, rejecting unknown fields.
func UnmarshalStrict(format Format, data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}

	switch format {
	case YAML:
		if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
			return fmt.Errorf("codec: %w", err)
		}
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("codec: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return nil
}

// Marshal encodes v in the given format.
func Marshal(format Format, v any) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case YAML:
		out, err = yaml.Marshal(v)
	case TOML:
		out, err = toml.Marshal(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return out, nil
}
