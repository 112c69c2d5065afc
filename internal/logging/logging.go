// Package logging builds the zap loggers used by the CLI.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Rotation defaults applied when a log file is configured.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxAgeDays = 14
	DefaultMaxBackups = 3
)

// Sentinel errors for logger construction.
var (
	ErrInvalidLevel  = errors.New("invalid log level")
	ErrInvalidFormat = errors.New("invalid log format")
)

// Config holds logger settings.
type Config struct {
	Level      string `yaml:"level" toml:"level"`           // debug, info, warn, error
	Format     string `yaml:"format" toml:"format"`         // console or json
	File       string `yaml:"file" toml:"file"`             // optional rotating log file
	MaxSize    int    `yaml:"maxSize" toml:"maxSize"`       // megabytes before rotation
	MaxAge     int    `yaml:"maxAge" toml:"maxAge"`         // days to keep rotated files
	MaxBackups int    `yaml:"maxBackups" toml:"maxBackups"` // rotated files to keep
	Compress   bool   `yaml:"compress" toml:"compress"`     // gzip rotated files
}

// Validate checks level and format names.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "", FormatConsole, FormatJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected console or json)", ErrInvalidFormat, c.Format)
	}
}

// New builds a logger writing to console and, when cfg.File is set, to a
// rotating file as well. Console output is colored only on a terminal.
func New(cfg Config, console io.Writer) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := ParseLevel(cfg.Level)

	consoleCore := zapcore.NewCore(
		newEncoder(cfg.Format, isTerminal(console)),
		zapcore.AddSync(console),
		level,
	)

	core := consoleCore
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		fileCore := zapcore.NewCore(
			newEncoder(FormatJSON, false),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    orDefault(cfg.MaxSize, DefaultMaxSizeMB),
				MaxAge:     orDefault(cfg.MaxAge, DefaultMaxAgeDays),
				MaxBackups: orDefault(cfg.MaxBackups, DefaultMaxBackups),
				Compress:   cfg.Compress,
			}),
			level,
		)
		core = zapcore.NewTee(consoleCore, fileCore)
	}

	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// ParseLevel converts a level name to a zapcore.Level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return level, nil
}

func newEncoder(format string, color bool) zapcore.Encoder {
	if strings.EqualFold(format, FormatJSON) {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeDuration = zapcore.StringDurationEncoder
		return zapcore.NewJSONEncoder(cfg)
	}

	cfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(cfg)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
