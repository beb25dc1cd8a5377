package display

import (
	"fmt"
	"io"
)

// ProgressIndicator reports files as they are copied into the staging directory.
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
	color   bool
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int, color bool) *ProgressIndicator {
	return &ProgressIndicator{
		writer: w,
		total:  total,
		color:  color,
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start(dir string) {
	fmt.Fprintf(p.writer, "Staging %d files into %s:\n", p.total, dir)
}

// Step displays progress for the current file: [N/Total] path
func (p *ProgressIndicator) Step(path string) {
	p.current++
	line := fmt.Sprintf("  [%d/%d] %s", p.current, p.total, path)
	if p.color {
		line = ansiCyan + line + ansiReset
	}
	fmt.Fprintln(p.writer, line)
}

// Complete displays the success line.
func (p *ProgressIndicator) Complete() {
	mark := "✓"
	if p.color {
		mark = ansiGreen + mark + ansiReset
	}
	fmt.Fprintf(p.writer, "%s Staged %d files\n", mark, p.current)
}
