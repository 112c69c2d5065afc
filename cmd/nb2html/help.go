package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert notebooks to HTML with collapsible code cells")
	fmt.Fprintln(w, "  template   Write the custom-mode template for editing")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check Jupyter, Chrome and the environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "'nb2html notebook.ipynb' is shorthand for 'nb2html convert notebook.ipynb'.")
	fmt.Fprintln(w, "Run 'nb2html help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2html convert <notebook.ipynb>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Jupyter notebooks to HTML pages whose code cells can be shown or hidden.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>          Output file (single notebook only)")
	fmt.Fprintln(w, "      --output-dir <dir>       Directory for generated files")
	fmt.Fprintln(w, "  -m, --mode <s>               simple (nbconvert + script) or custom (template)")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Simple mode:")
	fmt.Fprintln(w, "      --jupyter <path>         Jupyter launcher (default \"jupyter\")")
	fmt.Fprintln(w, "      --nbconvert-arg <arg>    Extra nbconvert argument (repeatable)")
	fmt.Fprintln(w, "  -t, --timeout <d>            nbconvert time limit, e.g. 2m")
	fmt.Fprintln(w, "      --on-missing-body <s>    fail or append when </body> is absent")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Custom mode:")
	fmt.Fprintln(w, "      --template <path>        Template file (generated when missing)")
	fmt.Fprintln(w, "      --highlight              Syntax-highlight code cells")
	fmt.Fprintln(w, "      --style <name>           Highlight style, e.g. github, monokai")
	fmt.Fprintln(w, "      --sanitize               Sanitize markdown and HTML outputs")
	fmt.Fprintln(w, "      --asset-path <dir>       Directory overriding built-in assets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --css <path>             Extra stylesheet injected into the page")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --pdf                    Also print the page to PDF (needs Chrome)")
	fmt.Fprintln(w, "  -p, --page-size <s>          Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>        Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>             Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                  Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                Debug logging")
	fmt.Fprintln(w, "      --log-format <s>         console or json")
	fmt.Fprintln(w, "      --log-file <path>        Also write logs to a rotated file")
}

// printTemplateUsage prints usage for the template command.
func printTemplateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2html template [path] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the custom-mode template (default collapsible_template.tmpl).")
	fmt.Fprintln(w, "An existing file with identical content is left untouched.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding the built-in template")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2html config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration convert would use, after the config file,")
	fmt.Fprintln(w, "NB2HTML_* variables and flags are applied. Accepts every convert flag.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --format <s>    Output syntax: yaml, toml")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2html doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Jupyter nbconvert and Chrome are available.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json             Machine-readable output")
	fmt.Fprintln(w, "      --jupyter <path>   Jupyter launcher to check")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "template":
		printTemplateUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: nb2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: nb2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
