// Package repository enumerates the files a git project tracks, classifies
// them by type, and records advisory findings about repository policy.
package repository

import (
	"context"
	"fmt"

	"github.com/harrison/phplint/internal/issues"
)

// DefaultExpectedBranch is the conventional default branch name.
const DefaultExpectedBranch = "main"

// TrackedFile is a project-relative path and its derived type.
type TrackedFile struct {
	Path string
	Type FileType
}

// Options configures Open.
type Options struct {
	// Root is the project root used to read shebang lines of extensionless files.
	// Empty means the current directory.
	Root string
	// ExpectedBranch is the default branch name Check expects (empty = main).
	ExpectedBranch string
}

// Repository is a snapshot of a project's tracked files and remote default branch.
type Repository struct {
	root           string
	files          []TrackedFile
	defaultBranch  string
	expectedBranch string
	issues         issues.Set
}

// Open queries vcs once for the tracked file list and once for the default branch.
func Open(ctx context.Context, vcs VCS, opts Options) (*Repository, error) {
	paths, err := vcs.TrackedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}

	branch, err := vcs.DefaultBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine default branch: %w", err)
	}

	expected := opts.ExpectedBranch
	if expected == "" {
		expected = DefaultExpectedBranch
	}

	files := make([]TrackedFile, len(paths))
	for i, p := range paths {
		files[i] = TrackedFile{Path: p, Type: ClassifyFile(opts.Root, p)}
	}

	return &Repository{
		root:           opts.Root,
		files:          files,
		defaultBranch:  branch,
		expectedBranch: expected,
	}, nil
}

// Root returns the project root given at Open.
func (r *Repository) Root() string {
	return r.root
}

// DefaultBranch returns the remote's default branch discovered at Open.
func (r *Repository) DefaultBranch() string {
	return r.defaultBranch
}

// Files returns every tracked file in VCS listing order.
func (r *Repository) Files() []TrackedFile {
	out := make([]TrackedFile, len(r.files))
	copy(out, r.files)
	return out
}

// FilesByType returns paths of the given type in VCS listing order.
func (r *Repository) FilesByType(t FileType) []string {
	var matches []string
	for _, f := range r.files {
		if f.Type == t {
			matches = append(matches, f.Path)
		}
	}
	return matches
}

// Check applies repository policy and records advisories. It never fails.
func (r *Repository) Check() {
	if r.defaultBranch != r.expectedBranch {
		r.issues.Add(fmt.Sprintf("Default branch is %q, expected %q", r.defaultBranch, r.expectedBranch))
	}
}

// Issues returns the advisories recorded by Check, in the order found.
func (r *Repository) Issues() []string {
	return r.issues.List()
}

// HasIssues reports whether Check recorded any advisory.
func (r *Repository) HasIssues() bool {
	return !r.issues.Empty()
}
