package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-nb2html/internal/config"
)

// envPrefix marks the variables the CLI reads.
const envPrefix = "NB2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without a config file.
type envConfig struct {
	ConfigPath string // NB2HTML_CONFIG: config file name or path
	Jupyter    string // NB2HTML_JUPYTER: Jupyter launcher
	Mode       string // NB2HTML_MODE: simple or custom
	Timeout    string // NB2HTML_TIMEOUT: Go duration
	OutputDir  string // NB2HTML_OUTPUT_DIR: directory for generated files
	LogLevel   string // NB2HTML_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid NB2HTML_* environment variables.
var knownEnvVars = map[string]bool{
	"NB2HTML_CONFIG":     true,
	"NB2HTML_JUPYTER":    true,
	"NB2HTML_MODE":       true,
	"NB2HTML_TIMEOUT":    true,
	"NB2HTML_OUTPUT_DIR": true,
	"NB2HTML_LOG_LEVEL":  true,
	"NB2HTML_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath: getenv("NB2HTML_CONFIG"),
		Jupyter:    getenv("NB2HTML_JUPYTER"),
		Mode:       getenv("NB2HTML_MODE"),
		Timeout:    getenv("NB2HTML_TIMEOUT"),
		OutputDir:  getenv("NB2HTML_OUTPUT_DIR"),
		LogLevel:   getenv("NB2HTML_LOG_LEVEL"),
	}
}

// warnUnknownEnvVars reports unrecognized NB2HTML_* variables, usually typos.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays set environment values on cfg.
// Precedence: CLI flags > env vars > config file > defaults; flags are
// applied afterwards by mergeFlags.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Jupyter != "" {
		cfg.Converter.Binary = env.Jupyter
	}
	if env.Mode != "" {
		cfg.Output.Mode = env.Mode
	}
	if env.Timeout != "" {
		cfg.Converter.Timeout = env.Timeout
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
