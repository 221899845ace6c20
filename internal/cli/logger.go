package cli

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"
)

// newLogger logs warnings and errors, or everything down to debug when
// verbose. Output is JSON unless w is a terminal.
func newLogger(w io.Writer, verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}

	tty := isTerminal(w)
	colorOpt := hclog.ColorOff
	if tty {
		colorOpt = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "muloader",
		Level:      level,
		Output:     w,
		JSONFormat: !tty,
		Color:      colorOpt,
	})
}

// newServeLogger logs JSON to stderr, which go-plugin forwards to the host.
func newServeLogger(verbose bool) hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "muloader",
		Level:      level,
		Output:     os.Stderr,
		JSONFormat: true,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
