package pipeline

import "github.com/charmbracelet/x/ansi"

// StripANSI removes terminal escape sequences. IPython colors tracebacks and
// some libraries color their stream output.
func StripANSI(s string) string {
	return ansi.Strip(s)
}
