package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-nb2html"
	"github.com/alnah/go-nb2html/internal/config"
	"github.com/alnah/go-nb2html/internal/hints"
)

// runMain dispatches a command line (args[0] is the program name) and
// returns the process exit code.
func runMain(args []string, env *Environment) int {
	// maxprocs.Set only fails on an invalid GOMAXPROCS; runtime defaults apply then.
	undo, _ := maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	defer undo()

	warnUnknownEnvVars(env.Stderr, env.Environ())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}
	cmd, rest := args[1], args[2:]

	var err error
	switch cmd {
	case "convert":
		err = runConvert(ctx, rest, env)
	case "template":
		err = runTemplate(rest, env)
	case "config":
		err = runConfig(rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "nb2html %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		if strings.HasSuffix(strings.ToLower(cmd), ".ipynb") {
			err = runConvert(ctx, args[1:], env)
			break
		}
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var procErr *nb2html.ProcessError
	var depErr *nb2html.DependencyError
	switch {
	case errors.As(err, &procErr):
		return hints.ForNbconvertFailed(procErr.Stderr)
	case errors.As(err, &depErr):
		return hints.ForNbconvertMissing(depErr.Binary)
	case errors.Is(err, nb2html.ErrDependencyMissing):
		return hints.ForNbconvertMissing("")
	case errors.Is(err, nb2html.ErrBodyMarkerNotFound):
		return hints.ForMissingBody()
	case errors.Is(err, nb2html.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err.Error()))
	case errors.Is(err, nb2html.ErrIO):
		return hints.ForOutputDirectory()
	}
	return ""
}

// triedPaths extracts the candidate list from a config search error.
func triedPaths(msg string) []string {
	_, list, ok := strings.Cut(msg, "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
