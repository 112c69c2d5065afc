// Command nb2html converts Jupyter notebooks to HTML pages with collapsible
// code cells.
package main

import (
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}
