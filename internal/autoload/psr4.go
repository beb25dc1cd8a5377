// Package autoload maps fully-qualified PHP class names to source files using
// the PSR-4 section of composer.json.
package autoload

import (
	"errors"
	"fmt"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"
)

// Extension is appended to every resolved class path.
const Extension = ".php"

// DefaultComposerFile is the mapping source looked up in the project root.
const DefaultComposerFile = "composer.json"

const (
	psr4Path         = "autoload.psr-4"
	namespaceSep     = `\`
	resolveCacheSize = 1024
)

// ErrConfigLoad indicates the mapping source was unreadable or malformed.
var ErrConfigLoad = errors.New("failed to load autoload mapping")

// Entry is one namespace prefix and its base directories, in source order.
type Entry struct {
	Prefix string
	Dirs   []string
}

type resolution struct {
	path  string
	found bool
}

// Mapper resolves class names against an immutable, ordered PSR-4 table.
// It is safe for concurrent use.
type Mapper struct {
	entries []Entry
	memo    *lru.Cache[string, resolution]
}

// Load reads a composer.json file and builds a Mapper from its PSR-4 section.
func Load(path string) (*Mapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrConfigLoad, path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse builds a Mapper from composer.json content.
// A document without an autoload.psr-4 section yields an empty table.
func Parse(data []byte) (*Mapper, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrConfigLoad)
	}

	section := gjson.GetBytes(data, psr4Path)
	if section.Exists() && !section.IsObject() {
		return nil, fmt.Errorf("%w: %s must be an object", ErrConfigLoad, psr4Path)
	}

	var entries []Entry
	var parseErr error
	section.ForEach(func(key, value gjson.Result) bool {
		dirs, err := parseDirs(value)
		if err != nil {
			parseErr = fmt.Errorf("%w: namespace %q: %v", ErrConfigLoad, key.String(), err)
			return false
		}
		entries = append(entries, Entry{Prefix: key.String(), Dirs: dirs})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return newMapper(entries), nil
}

// New builds a Mapper from entries given in priority order.
func New(entries []Entry) *Mapper {
	cp := make([]Entry, len(entries))
	for i, e := range entries {
		cp[i] = Entry{Prefix: e.Prefix, Dirs: append([]string(nil), e.Dirs...)}
	}
	return newMapper(cp)
}

func newMapper(entries []Entry) *Mapper {
	// Size is a positive constant, so New cannot fail.
	memo, _ := lru.New[string, resolution](resolveCacheSize)
	return &Mapper{entries: entries, memo: memo}
}

// parseDirs accepts a single path string or an array of path strings.
func parseDirs(value gjson.Result) ([]string, error) {
	switch {
	case value.Type == gjson.String:
		return []string{value.String()}, nil
	case value.IsArray():
		items := value.Array()
		dirs := make([]string, 0, len(items))
		for i, item := range items {
			if item.Type != gjson.String {
				return nil, fmt.Errorf("path %d is not a string", i)
			}
			dirs = append(dirs, item.String())
		}
		return dirs, nil
	default:
		return nil, fmt.Errorf("expected string or list of strings, got %s", value.Type)
	}
}

// Entries returns a copy of the mapping table in load order.
func (m *Mapper) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = Entry{Prefix: e.Prefix, Dirs: append([]string(nil), e.Dirs...)}
	}
	return out
}

// Resolve converts a fully-qualified class name to a project-relative file path.
//
// The first entry whose prefix starts the name wins. The remainder of the name
// becomes a path under that entry's first base directory. Resolution is lexical;
// the file is not required to exist.
func (m *Mapper) Resolve(className string) (string, bool) {
	if r, ok := m.memo.Get(className); ok {
		return r.path, r.found
	}

	r := m.resolve(className)
	m.memo.Add(className, r)
	return r.path, r.found
}

func (m *Mapper) resolve(className string) resolution {
	for _, e := range m.entries {
		// An entry with no directories cannot produce a path; later entries still apply.
		if len(e.Dirs) == 0 || !strings.HasPrefix(className, e.Prefix) {
			continue
		}

		relative := strings.ReplaceAll(className[len(e.Prefix):], namespaceSep, "/") + Extension
		base := strings.TrimRight(e.Dirs[0], "/")

		return resolution{path: strings.TrimLeft(base+"/"+relative, "/"), found: true}
	}

	return resolution{}
}
