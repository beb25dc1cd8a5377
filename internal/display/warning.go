// Package display renders user-facing advisories and staging progress.
package display

import (
	"fmt"
	"io"
	"strings"
)

const (
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiGreen  = "\x1b[32m"
	ansiReset  = "\x1b[0m"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Items      []string // Related files or findings (optional)
	Suggestion string   // Action to take (optional)
	Color      bool     // Wrap output in ANSI yellow
}

// Display writes the formatted warning to out.
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	if w.Color {
		b.WriteString(ansiYellow)
	}
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	for i, item := range w.Items {
		fmt.Fprintf(&b, "      %d. %s\n", i+1, item)
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if w.Color {
		b.WriteString(ansiReset)
	}

	fmt.Fprint(out, b.String())
}

// IssuesWarning builds the advisory shown after a repository check.
func IssuesWarning(issues []string, color bool) Warning {
	title := "1 repository issue"
	if len(issues) != 1 {
		title = fmt.Sprintf("%d repository issues", len(issues))
	}
	return Warning{
		Title:      title,
		Items:      issues,
		Suggestion: "Issues are advisory; pass --strict to treat them as failures.",
		Color:      color,
	}
}
