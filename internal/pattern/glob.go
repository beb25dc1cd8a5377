// Package pattern compiles the glob-like patterns used by .phplintignore.
//
// A pattern is literal text in which "*" matches any run of characters
// (including "/") and "?" matches exactly one character. Every other
// character, glob metacharacters included, is matched literally. Patterns
// are anchored at the start of the path only, so a pattern matches any path
// that begins with its expansion.
package pattern

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
)

// ErrInvalidPattern indicates a pattern could not be compiled.
var ErrInvalidPattern = errors.New("invalid ignore pattern")

// Pattern is a compiled ignore pattern.
type Pattern struct {
	raw   string
	match func(string) bool
}

// Compile converts a raw ignore line into a prefix-anchored matcher.
//
// Literal and "*" patterns in ASCII are compiled with gobwas/glob. Patterns
// with "?" or non-ASCII text use an equivalent regexp: gobwas/glob splits
// fixed-length segments at byte offsets, which breaks on multi-byte runes.
func Compile(raw string) (*Pattern, error) {
	if strings.ContainsRune(raw, '?') || !isASCII(raw) {
		re, err := regexp.Compile(expandRegexp(raw))
		if err != nil {
			return nil, errors.Join(ErrInvalidPattern, err)
		}
		return &Pattern{raw: raw, match: re.MatchString}, nil
	}

	g, err := glob.Compile(expand(raw))
	if err != nil {
		return nil, errors.Join(ErrInvalidPattern, err)
	}

	return &Pattern{raw: raw, match: g.Match}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
func MustCompile(raw string) *Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether path begins with the pattern's expansion.
func (p *Pattern) Match(path string) bool {
	if p == nil {
		return false
	}
	return p.match(path)
}

// String returns the raw pattern text.
func (p *Pattern) String() string {
	return p.raw
}

// expand quotes literal runs and keeps only "*" and "?" as wildcards.
// The trailing "*" turns the full-string glob match into a prefix match.
func expand(raw string) string {
	var b strings.Builder
	b.Grow(len(raw)*2 + 1)

	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] != '*' && raw[i] != '?' {
			continue
		}

		b.WriteString(glob.QuoteMeta(raw[start:i]))
		b.WriteByte(raw[i])
		start = i + 1
	}

	b.WriteString(glob.QuoteMeta(raw[start:]))
	b.WriteByte('*')

	return b.String()
}

// expandRegexp is expand for the regexp engine: "(?s)^" anchors at the start
// and lets "*" and "?" match any character, newlines included.
func expandRegexp(raw string) string {
	var b strings.Builder
	b.WriteString("(?s)^")

	start := 0
	for i := 0; i < len(raw); i++ {
		var repl string
		switch raw[i] {
		case '*':
			repl = ".*"
		case '?':
			repl = "."
		default:
			continue
		}

		b.WriteString(regexp.QuoteMeta(raw[start:i]))
		b.WriteString(repl)
		start = i + 1
	}
	b.WriteString(regexp.QuoteMeta(raw[start:]))

	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
