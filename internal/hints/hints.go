// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-nb2html/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForNbconvertMissing returns hints for a converter executable that is not on PATH.
func ForNbconvertMissing(binary string) string {
	hints := []string{"install with: pip install nbconvert"}
	if os.Getenv("CONDA_PREFIX") == "" && os.Getenv("VIRTUAL_ENV") == "" {
		hints = append(hints, "activate the environment that has Jupyter")
	}
	if binary != "" && binary != "jupyter" {
		hints = append(hints, "check --jupyter "+binary)
	} else {
		hints = append(hints, "or use --mode custom (no Jupyter required)")
	}
	return formatHints(hints)
}

// ForNbconvertFailed returns hints based on the converter's stderr.
func ForNbconvertFailed(stderr string) string {
	switch {
	case strings.Contains(stderr, "NoSuchKernel"):
		return format("the notebook's kernel is not installed; nbconvert only needs it with --execute")
	case strings.Contains(stderr, "NotJSONError"), strings.Contains(stderr, "Notebook does not appear to be JSON"):
		return format("the input is not a valid notebook file")
	case strings.Contains(stderr, "No module named"):
		return format("install the missing Python module in the Jupyter environment")
	}
	return ""
}

// ForMissingBody returns a hint for converter output without a closing body tag.
func ForMissingBody() string {
	return format("use --on-missing-body append to add the script at the end of the file")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large notebooks, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-nb2html/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-nb2html") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
