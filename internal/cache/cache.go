// Package cache manages the per-tool staging area under var/cache.
//
// Layout, relative to a caller-supplied base directory:
//
//	var/cache/<tool>/              cache root, created but never purged
//	var/cache/<tool>/files/        staging directory, emptied on Initialize
//	var/cache/<tool>/summary.xml   reserved summary artifact path
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/phplint/internal/filelock"
	"github.com/harrison/phplint/internal/fileutil"
)

const (
	// DefaultTool names the analyzer whose cache directory is used when none is given.
	DefaultTool = "pdepend"
	// Extension is the suffix added to staged copies by StagedName.
	Extension = ".php"

	cacheParent = "var/cache"
	filesDir    = "files"
	summaryFile = "summary.xml"
	lockSuffix  = ".lock"
)

var (
	// ErrFilesystem indicates a directory or file operation failed while staging.
	ErrFilesystem = errors.New("cache filesystem error")
	// ErrOutsideStaging indicates a destination path would escape the staging directory.
	ErrOutsideStaging = errors.New("path escapes staging directory")
)

// Root holds the directories of one staging session.
type Root struct {
	Dir         string
	FilesDir    string
	SummaryFile string

	// relFiles is FilesDir relative to the base directory, slash-separated.
	relFiles string
}

// New computes the cache layout for tool under baseDir without touching the
// filesystem. An empty tool selects DefaultTool.
func New(baseDir, tool string) (*Root, error) {
	if tool == "" {
		tool = DefaultTool
	}
	if strings.ContainsAny(tool, `/\`) || tool == "." || tool == ".." {
		return nil, fmt.Errorf("%w: invalid tool name %q", ErrFilesystem, tool)
	}

	rel := cacheParent + "/" + tool
	r := &Root{
		Dir:      filepath.Join(baseDir, filepath.FromSlash(rel)),
		relFiles: rel + "/" + filesDir,
	}
	r.FilesDir = filepath.Join(r.Dir, filesDir)
	r.SummaryFile = filepath.Join(r.Dir, summaryFile)

	return r, nil
}

// Initialize creates the cache root for tool under baseDir and leaves an empty
// staging directory. Existing staged files are removed; anything else under
// the cache root is kept.
func Initialize(baseDir, tool string) (*Root, error) {
	r, err := New(baseDir, tool)
	if err != nil {
		return nil, err
	}
	if err := r.Reset(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reset creates the cache root if needed and recreates an empty staging directory.
func (r *Root) Reset() error {
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrFilesystem, r.Dir, err)
	}
	if err := os.RemoveAll(r.FilesDir); err != nil {
		return fmt.Errorf("%w: purge %s: %w", ErrFilesystem, r.FilesDir, err)
	}
	if err := os.Mkdir(r.FilesDir, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrFilesystem, r.FilesDir, err)
	}
	return nil
}

// StagedName returns the name under which the file at rel is staged.
func StagedName(rel string) string {
	return rel + Extension
}

// StageFile copies source to rel inside the staging directory, creating
// intermediate directories as needed.
func (r *Root) StageFile(source, rel string) error {
	dst, err := r.stagedPath(rel)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrFilesystem, filepath.Dir(dst), err)
	}
	if err := filelock.AtomicCopy(source, dst); err != nil {
		return fmt.Errorf("%w: stage %s: %w", ErrFilesystem, rel, err)
	}

	return nil
}

func (r *Root) stagedPath(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if rel == "" || clean == "." || filepath.IsAbs(clean) ||
		clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideStaging, rel)
	}
	return filepath.Join(r.FilesDir, clean), nil
}

// OriginalPathOf maps a staged path back to the project-relative path it was
// staged from. Both absolute paths under FilesDir and paths relative to the
// base directory are accepted. One trailing Extension is removed. Paths outside
// the staging directory are returned unchanged.
func (r *Root) OriginalPathOf(staged string) string {
	slashed := filepath.ToSlash(staged)

	var rest string
	switch {
	case strings.HasPrefix(slashed, filepath.ToSlash(r.FilesDir)+"/"):
		rest = slashed[len(filepath.ToSlash(r.FilesDir))+1:]
	case strings.HasPrefix(slashed, r.relFiles+"/"):
		rest = slashed[len(r.relFiles)+1:]
	default:
		return staged
	}

	return strings.TrimSuffix(rest, Extension)
}

// StagedFiles lists everything currently staged, relative to FilesDir.
func (r *Root) StagedFiles() ([]string, error) {
	result, err := fileutil.ScanDirectory(r.FilesDir, fileutil.ScanOptions{
		IncludeHidden: true,
		Relative:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrFilesystem, errors.Join(result.Errors...))
	}
	return result.Files, nil
}

// Lock takes the advisory session lock for this cache root without blocking.
// Callers that share a base directory should hold it across Reset and staging.
// The returned lock must be released with Unlock. A lock held elsewhere is
// reported as an error.
func (r *Root) Lock() (*filelock.FileLock, error) {
	if err := os.MkdirAll(filepath.Dir(r.Dir), 0755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrFilesystem, filepath.Dir(r.Dir), err)
	}

	lock := filelock.NewFileLock(r.Dir + lockSuffix)

	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	if !acquired {
		return nil, fmt.Errorf("cache %s is in use by another run (lock %s)", r.Dir, lock.Path())
	}

	return lock, nil
}
