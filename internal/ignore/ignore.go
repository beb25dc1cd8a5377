// Package ignore loads .phplintignore rules and decides which project paths
// are skipped by the linter.
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/phplint/internal/pattern"
)

// FileName is the ignore file looked up in the project root.
const FileName = ".phplintignore"

// List is an ordered, immutable set of compiled ignore patterns.
// It is safe for concurrent use.
type List struct {
	patterns []*pattern.Pattern
}

// Load reads the ignore file from projectRoot.
// A missing file yields an empty list and no error.
func Load(projectRoot string) (*List, error) {
	path := filepath.Join(projectRoot, FileName)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &List{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ignore file: %w", err)
	}
	defer func() { _ = f.Close() }()

	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse ignore file %s: %w", path, err)
	}
	return list, nil
}

// Parse compiles one pattern per line from r.
// Lines are trimmed; blank lines and lines starting with "#" are skipped.
func Parse(r io.Reader) (*List, error) {
	s := bufio.NewScanner(r)
	list := &List{}

	lineNo := 0
	for s.Scan() {
		lineNo++

		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, err := pattern.Compile(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		list.patterns = append(list.patterns, p)
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan ignore rules: %w", err)
	}

	return list, nil
}

// ParseString parses rules from string input.
func ParseString(src string) (*List, error) {
	return Parse(strings.NewReader(src))
}

// ShouldIgnore reports whether any pattern matches path.
func (l *List) ShouldIgnore(path string) bool {
	if l == nil {
		return false
	}
	for _, p := range l.patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}

// Filter returns the paths that are not ignored, preserving order.
func (l *List) Filter(paths []string) []string {
	kept := make([]string, 0, len(paths))
	for _, path := range paths {
		if !l.ShouldIgnore(path) {
			kept = append(kept, path)
		}
	}
	return kept
}

// Patterns returns the raw pattern text in file order.
func (l *List) Patterns() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.patterns))
	for i, p := range l.patterns {
		out[i] = p.String()
	}
	return out
}

// Len returns the number of compiled patterns.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.patterns)
}
