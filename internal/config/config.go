// Package config loads nb2html settings from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-nb2html/internal/codec"
	"github.com/alnah/go-nb2html/internal/fileutil"
	"github.com/alnah/go-nb2html/internal/logging"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory searched under the user config dir.
const AppDirName = "go-nb2html"

// Field length limits.
const (
	MaxPathLength     = 4096
	MaxArgLength      = 1024
	MaxExtraArgs      = 64
	MaxStyleLength    = 50
	MaxPageSizeLength = 10
)

// Margin bounds for PDF export, in inches.
const (
	MinMargin = 0.25
	MaxMargin = 3.0
)

// Config holds all configuration for notebook conversion.
type Config struct {
	Converter ConverterConfig `yaml:"converter" toml:"converter"`
	Output    OutputConfig    `yaml:"output" toml:"output"`
	Template  TemplateConfig  `yaml:"template" toml:"template"`
	Inject    InjectConfig    `yaml:"inject" toml:"inject"`
	Render    RenderConfig    `yaml:"render" toml:"render"`
	PDF       PDFConfig       `yaml:"pdf" toml:"pdf"`
	Assets    AssetsConfig    `yaml:"assets" toml:"assets"`
	Log       logging.Config  `yaml:"log" toml:"log"`
}

// ConverterConfig configures the external nbconvert process.
type ConverterConfig struct {
	Binary    string   `yaml:"binary" toml:"binary"`       // empty = "jupyter"
	ExtraArgs []string `yaml:"extraArgs" toml:"extraArgs"` // passed before the input path
	Timeout   string   `yaml:"timeout" toml:"timeout"`     // Go duration, empty = default
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir"` // empty = next to the notebook
	Mode       string `yaml:"mode" toml:"mode"`             // "simple" or "custom"
}

// TemplateConfig locates the custom-mode template file.
type TemplateConfig struct {
	Path string `yaml:"path" toml:"path"` // empty = next to the output
}

// InjectConfig controls snippet injection.
type InjectConfig struct {
	OnMissingBody string `yaml:"onMissingBody" toml:"onMissingBody"` // "fail" or "append"
	CSS           string `yaml:"css" toml:"css"`                     // extra stylesheet path
}

// RenderConfig controls custom-mode rendering.
type RenderConfig struct {
	Highlight bool   `yaml:"highlight" toml:"highlight"`
	Style     string `yaml:"style" toml:"style"` // Chroma style name
	Sanitize  bool   `yaml:"sanitize" toml:"sanitize"`
}

// PDFConfig defines optional PDF export.
type PDFConfig struct {
	Enabled  bool    `yaml:"enabled" toml:"enabled"`
	PageSize    string  `yaml:"pageSize" toml:"pageSize"`       // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation" toml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin" toml:"margin"`           // inches
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath" toml:"basePath"` // empty = embedded assets
}

// DefaultConfig returns the neutral configuration: simple mode, embedded
// assets, no PDF.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Mode: "simple"},
		Inject: InjectConfig{OnMissingBody: "fail"},
		Log:    logging.Config{Level: "info", Format: logging.FormatConsole},
	}
}

// Validate checks enumerations, ranges, and field lengths.
// Called by LoadConfig, and available to callers that build a Config in code.
func (c *Config) Validate() error {
	for field, value := range map[string]string{
		"converter.binary":  c.Converter.Binary,
		"output.defaultDir": c.Output.DefaultDir,
		"template.path":     c.Template.Path,
		"inject.css":        c.Inject.CSS,
		"assets.basePath":   c.Assets.BasePath,
		"log.file":          c.Log.File,
	} {
		if err := validateFieldLength(field, value, MaxPathLength); err != nil {
			return err
		}
	}

	if len(c.Converter.ExtraArgs) > MaxExtraArgs {
		return fmt.Errorf("%w: converter.extraArgs has %d entries (max %d)", ErrInvalidValue, len(c.Converter.ExtraArgs), MaxExtraArgs)
	}
	for i, arg := range c.Converter.ExtraArgs {
		if err := validateFieldLength(fmt.Sprintf("converter.extraArgs[%d]", i), arg, MaxArgLength); err != nil {
			return err
		}
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}

	if err := oneOf("output.mode", c.Output.Mode, "simple", "custom"); err != nil {
		return err
	}
	if err := oneOf("inject.onMissingBody", c.Inject.OnMissingBody, "fail", "append"); err != nil {
		return err
	}

	if err := validateFieldLength("render.style", c.Render.Style, MaxStyleLength); err != nil {
		return err
	}

	if err := validateFieldLength("pdf.pageSize", c.PDF.PageSize, MaxPageSizeLength); err != nil {
		return err
	}
	if err := oneOf("pdf.pageSize", c.PDF.PageSize, "letter", "a4", "legal"); err != nil {
		return err
	}
	if err := oneOf("pdf.orientation", c.PDF.Orientation, "portrait", "landscape"); err != nil {
		return err
	}
	if c.PDF.Margin != 0 && (c.PDF.Margin < MinMargin || c.PDF.Margin > MaxMargin) {
		return fmt.Errorf("%w: pdf.margin must be between %.2f and %.1f inches, got %.2f", ErrInvalidValue, MinMargin, MaxMargin, c.PDF.Margin)
	}

	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// Timeout parses converter.timeout. Zero means "use the default".
func (c *Config) Timeout() (time.Duration, error) {
	if c.Converter.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Converter.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: converter.timeout %q: %v", ErrInvalidValue, c.Converter.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: converter.timeout must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// oneOf accepts an empty value or one of allowed (case-insensitive).
func oneOf(fieldName, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	format, err := codec.FormatFromPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := codec.UnmarshalStrict(format, data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file by name.
// Tries extensions .yaml, .yml, .toml in the current directory, then in
// the user config directory under AppDirName.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml", ".toml"}
	dirs := []string{""}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userConfigDir, AppDirName))
	}

	tried := make([]string, 0, len(extensions)*len(dirs))
	for _, dir := range dirs {
		for _, ext := range extensions {
			candidate := filepath.Join(dir, name+ext)
			if fileutil.FileExists(candidate) {
				return candidate, nil
			}
			tried = append(tried, candidate)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
