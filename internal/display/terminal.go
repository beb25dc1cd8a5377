package display

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// fdWriter is implemented by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// ColorEnabled reports whether ANSI colors should be written to w.
// Colors require a terminal and are disabled by NO_COLOR.
func ColorEnabled(w io.Writer) bool {
	if color.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
