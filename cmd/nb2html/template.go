package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-nb2html"
)

// runTemplate writes the custom-mode template so it can be edited.
func runTemplate(args []string, env *Environment) error {
	fs := flag.NewFlagSet("template", flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	assetPath := fs.String("asset-path", "", "directory overriding the built-in template")
	quiet := fs.BoolP("quiet", "q", false, "only show errors")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printTemplateUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: template takes at most one path", ErrUsage)
	}

	conv, err := env.NewConverter(nb2html.WithAssetPath(*assetPath))
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	path, err := conv.WriteTemplate(fs.Arg(0))
	if err != nil {
		return err
	}
	if !*quiet {
		fmt.Fprintf(env.Stdout, "Template written to %s\n", path)
		fmt.Fprintf(env.Stdout, "Edit it, then run: nb2html convert --mode custom --template %s <notebook.ipynb>\n", path)
	}
	return nil
}
