package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// DefaultRemote is the remote consulted for the default branch.
const DefaultRemote = "origin"

const (
	lsFilesCommand   = "git ls-files -z"
	remoteShowPrefix = "git remote show "
	showTopLevel     = "git rev-parse --show-toplevel"
	headBranchLabel  = "HEAD branch:"
)

// remoteNameRE limits remote names to characters that need no shell quoting.
var remoteNameRE = regexp.MustCompile(`^[\w.-]+$`)

// VCS answers the two version-control questions a Repository needs.
type VCS interface {
	// TrackedFiles lists project-relative paths of all tracked files.
	TrackedFiles(ctx context.Context) ([]string, error)
	// DefaultBranch returns the remote's default branch name.
	DefaultBranch(ctx context.Context) (string, error)
}

// GitCLI implements VCS by running the git binary through a CommandRunner.
type GitCLI struct {
	// Runner executes git commands.
	Runner CommandRunner
	// Remote is the remote consulted for the default branch (empty = origin).
	Remote string
}

// NewGitCLI creates a GitCLI that runs git in workDir.
func NewGitCLI(workDir string) *GitCLI {
	return &GitCLI{Runner: NewShellCommandRunner(workDir)}
}

// NewGitCLIWithRunner creates a GitCLI with a custom command runner.
// Useful for testing.
func NewGitCLIWithRunner(runner CommandRunner) *GitCLI {
	return &GitCLI{Runner: runner}
}

// TrackedFiles runs git ls-files with NUL-separated output, so paths arrive
// unquoted. An empty listing is not an error.
func (g *GitCLI) TrackedFiles(ctx context.Context) ([]string, error) {
	output, err := g.run(ctx, lsFilesCommand)
	if err != nil {
		return nil, err
	}
	return splitNUL(output), nil
}

// DefaultBranch runs git remote show and parses its "HEAD branch:" line.
func (g *GitCLI) DefaultBranch(ctx context.Context) (string, error) {
	remote := g.Remote
	if remote == "" {
		remote = DefaultRemote
	}
	if !remoteNameRE.MatchString(remote) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRemote, remote)
	}

	command := remoteShowPrefix + remote
	output, err := g.run(ctx, command)
	if err != nil {
		return "", err
	}

	branch, ok := parseHeadBranch(output)
	if !ok {
		return "", fmt.Errorf("%w: %w in output of %q", ErrProcess, ErrNoDefaultBranch, command)
	}
	return branch, nil
}

func (g *GitCLI) run(ctx context.Context, command string) (string, error) {
	output, err := g.Runner.Run(ctx, command)
	if err != nil {
		if detail := strings.TrimSpace(output); detail != "" {
			return "", fmt.Errorf("%w: %s: %w: %s", ErrProcess, command, err, detail)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrProcess, command, err)
	}
	return output, nil
}

// parseHeadBranch finds "HEAD branch: <name>" in git remote show output.
// git prints "(unknown)" when the remote HEAD is not known.
func parseHeadBranch(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, headBranchLabel)
		if !ok {
			continue
		}

		branch := strings.TrimSpace(rest)
		if branch == "" || branch == "(unknown)" {
			return "", false
		}
		return branch, true
	}
	return "", false
}

// FindRoot returns the top-level directory of the repository containing the
// runner's working directory.
func FindRoot(ctx context.Context, runner CommandRunner) (string, error) {
	output, err := runner.Run(ctx, showTopLevel)
	if err != nil {
		return "", fmt.Errorf("%w: not inside a git repository: %w", ErrProcess, err)
	}

	root := strings.TrimSpace(output)
	if root == "" {
		return "", fmt.Errorf("%w: empty output from %q", ErrProcess, showTopLevel)
	}
	return root, nil
}

func splitNUL(output string) []string {
	var paths []string
	for _, p := range strings.Split(output, "\x00") {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
