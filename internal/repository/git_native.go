package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GoGit implements VCS in-process with go-git, without spawning git.
// Tracked files come from the index; the default branch comes from the
// remote's symbolic HEAD reference (refs/remotes/<remote>/HEAD).
type GoGit struct {
	// Path is any directory inside the working tree.
	Path string
	// Remote is the remote consulted for the default branch (empty = origin).
	Remote string
}

// NewGoGit creates a GoGit backend for the repository containing path.
func NewGoGit(path string) *GoGit {
	return &GoGit{Path: path}
}

func (g *GoGit) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(g.Path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrProcess, g.Path, err)
	}
	return repo, nil
}

// TrackedFiles lists index entries in index order, matching git ls-files.
// When Path is below the worktree top, only entries under Path are listed
// and they are reported relative to Path, as git ls-files does.
func (g *GoGit) TrackedFiles(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := g.open()
	if err != nil {
		return nil, err
	}

	prefix, err := g.subdirPrefix(repo)
	if err != nil {
		return nil, err
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("%w: read index: %w", ErrProcess, err)
	}

	files := make([]string, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		name, ok := strings.CutPrefix(e.Name, prefix)
		if !ok {
			continue
		}
		files = append(files, name)
	}
	return files, nil
}

// subdirPrefix returns Path relative to the worktree top as a slash-separated
// prefix ending in "/", or "" when Path is the top itself.
func (g *GoGit) subdirPrefix(repo *gogit.Repository) (string, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("%w: open worktree: %w", ErrProcess, err)
	}

	top, err := canonicalPath(wt.Filesystem.Root())
	if err != nil {
		return "", fmt.Errorf("%w: resolve worktree root: %w", ErrProcess, err)
	}
	dir, err := canonicalPath(g.Path)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %w", ErrProcess, g.Path, err)
	}

	rel, err := filepath.Rel(top, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside worktree %s", ErrProcess, g.Path, top)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel) + "/", nil
}

func canonicalPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// DefaultBranch resolves refs/remotes/<remote>/HEAD to a branch name.
func (g *GoGit) DefaultBranch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	repo, err := g.open()
	if err != nil {
		return "", err
	}

	remote := g.Remote
	if remote == "" {
		remote = DefaultRemote
	}

	ref, err := repo.Reference(plumbing.NewRemoteHEADReferenceName(remote), false)
	if err != nil {
		return "", fmt.Errorf("%w: %w for remote %q: %w", ErrProcess, ErrNoDefaultBranch, remote, err)
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", fmt.Errorf("%w: %w: remote %q HEAD is detached", ErrProcess, ErrNoDefaultBranch, remote)
	}

	target := ref.Target().String()
	branch := strings.TrimPrefix(target, "refs/remotes/"+remote+"/")
	if branch == target || branch == "" {
		return "", fmt.Errorf("%w: %w: unexpected target %q", ErrProcess, ErrNoDefaultBranch, target)
	}
	return branch, nil
}
