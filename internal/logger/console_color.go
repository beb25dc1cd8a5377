package logger

import (
	"fmt"

	"github.com/fatih/color"
)

// colorScheme holds the colors used for summary counts.
type colorScheme struct {
	success *color.Color
	warn    *color.Color
	label   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
}

// formatColorizedSummary colors the staged count green and any non-zero
// ignored or issue counts yellow.
func formatColorizedSummary(s Summary, scheme *colorScheme) string {
	count := func(n int) string {
		if n > 0 {
			return scheme.warn.Sprint(n)
		}
		return fmt.Sprint(n)
	}

	return fmt.Sprintf("%s %s/%d files (%s ignored, %s issues) in %s",
		scheme.label.Sprint("Staged"),
		scheme.success.Sprint(s.Staged), s.Tracked,
		count(s.Ignored), count(s.Issues),
		formatDuration(s.Duration))
}
