package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/jedib0t/go-pretty/v6/table"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-nb2html/internal/nbconvert"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorVersionTimeout bounds each `--version` call.
const doctorVersionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready", "warnings", "errors"
	Nbconvert nbconvertInfo `json:"nbconvert"`
	Chrome    chromeInfo    `json:"chrome"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// nbconvertInfo holds Jupyter detection results.
type nbconvertInfo struct {
	Binary  string `json:"binary"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorChecks holds the lookups doctor runs; tests replace them.
type doctorChecks struct {
	nbconvert  *nbconvert.Client
	lookChrome func() (string, bool)
	getenv     func(string) string
	stat       func(string) (os.FileInfo, error)
	tempDir    string
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Missing Jupyter is an error because simple mode, the default, needs it.
// Missing Chrome is only a warning: it is needed for --pdf alone.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	jsonOutput := fs.Bool("json", false, "machine-readable output")
	jupyter := fs.String("jupyter", "", "Jupyter launcher to check")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	binary := *jupyter
	if binary == "" {
		binary = env.Getenv("NB2HTML_JUPYTER")
	}
	checks := doctorChecks{
		nbconvert:  nbconvert.New(binary),
		lookChrome: launcher.LookPath,
		getenv:     env.Getenv,
		stat:       os.Stat,
		tempDir:    os.TempDir(),
	}
	result := runDoctor(ctx, checks)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, checks doctorChecks) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  checks.getenv("ROD_NO_SANDBOX"),
			BrowserBin: checks.getenv("ROD_BROWSER_BIN"),
		},
	}

	checkNbconvert(ctx, checks, result)
	checkChrome(checks, result)
	checkEnvironment(checks, result)
	checkSystem(checks, result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkNbconvert locates the Jupyter launcher and asks nbconvert for its version.
func checkNbconvert(ctx context.Context, checks doctorChecks, result *doctorResult) {
	client := checks.nbconvert
	result.Nbconvert.Binary = client.Binary()

	path, err := client.Check()
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s not found. Install with: pip install nbconvert (or use --mode custom)", client.Binary()))
		return
	}
	result.Nbconvert.Found = true
	result.Nbconvert.Path = path

	ctx, cancel := context.WithTimeout(ctx, doctorVersionTimeout)
	defer cancel()
	version, err := client.Version(ctx)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s found but nbconvert did not report a version: %v", client.Binary(), firstLine(err.Error())))
		return
	}
	result.Nbconvert.Version = version
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(checks doctorChecks, result *doctorResult) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = checks.lookChrome()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; --pdf will download Chromium on first use or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := checks.stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- path from launcher or ROD_BROWSER_BIN
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(checks doctorChecks, result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer(checks)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if checks.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" && result.Chrome.Found {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for --pdf")
	}
}

// isContainer reports whether we run in a container and which signal said so.
func isContainer(checks doctorChecks) (bool, string) {
	if checks.getenv("NB2HTML_CONTAINER") == "1" {
		return true, "NB2HTML_CONTAINER=1"
	}
	if _, err := checks.stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := checks.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if checks.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for nbconvert output is writable.
func checkSystem(checks doctorChecks, result *doctorResult) {
	dir, err := os.MkdirTemp(checks.tempDir, "nb2html-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", checks.tempDir))
		return
	}
	_ = os.RemoveAll(dir)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	ok := color.New(color.FgGreen).Sprint("OK")
	missing := color.New(color.FgRed).Sprint("MISSING")
	optional := color.New(color.FgYellow).Sprint("MISSING")

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("nb2html doctor")
	tw.AppendHeader(table.Row{"Check", "Status", "Details"})

	if r.Nbconvert.Found {
		tw.AppendRow(table.Row{"nbconvert", ok, joinNonEmpty(r.Nbconvert.Path, r.Nbconvert.Version)})
	} else {
		tw.AppendRow(table.Row{"nbconvert", missing, r.Nbconvert.Binary})
	}

	if r.Chrome.Found {
		sandbox := "sandbox enabled"
		if !r.Chrome.Sandbox {
			sandbox = "sandbox disabled (ROD_NO_SANDBOX=1)"
		}
		tw.AppendRow(table.Row{"Chrome (--pdf)", ok, joinNonEmpty(r.Chrome.Path, r.Chrome.Version, sandbox)})
	} else {
		tw.AppendRow(table.Row{"Chrome (--pdf)", optional, "optional"})
	}

	platform := r.Env.OS + "/" + r.Env.Arch
	if r.Env.Container {
		platform += ", container (" + r.Env.ContainerHint + ")"
	}
	if r.Env.CI {
		platform += ", CI"
	}
	tw.AppendRow(table.Row{"Platform", ok, platform})

	if r.System.TempWritable {
		tw.AppendRow(table.Row{"Temp directory", ok, "writable"})
	} else {
		tw.AppendRow(table.Row{"Temp directory", missing, "not writable"})
	}
	tw.Render()
	fmt.Fprintln(w)

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("[WARN]"), warn)
	}
	for _, err := range r.Errors {
		fmt.Fprintf(w, "%s %s\n", color.RedString("[ERROR]"), err)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
