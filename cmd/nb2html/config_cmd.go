package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-nb2html/internal/codec"
)

// runConfig prints the effective configuration after the config file,
// environment variables and flags have been applied. The output is a valid
// config file.
func runConfig(args []string, env *Environment) error {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	format := fs.String("format", string(codec.YAML), "output syntax: yaml, toml")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printConfigUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	syntax, err := codec.ParseFormat(*format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cfg, err := resolveConfig(f, env)
	if err != nil {
		return err
	}
	data, err := codec.Marshal(syntax, cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(data)
	return err
}
