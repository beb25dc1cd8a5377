// Package fileutil walks directory trees and collects files in a
// deterministic order.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// IncludeHidden enters directories whose name starts with "."
	IncludeHidden bool
	// Relative reports paths relative to the scanned directory using "/" separators
	Relative bool
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the matched paths, sorted
	Files []string
	// Errors contains non-fatal errors encountered while walking
	Errors []error
}

// ScanDirectory recursively collects the regular files under dir.
// A missing root is fatal; unreadable entries below the root are collected
// in ScanResult.Errors and the walk continues.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil
		}
		if path == dir {
			return nil
		}

		if d.IsDir() {
			if !opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		out, err := outputPath(dir, path, opts.Relative)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}

		result.Files = append(result.Files, out)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(result.Files)

	return result, nil
}

func outputPath(root, path string, relative bool) (string, error) {
	if relative {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return "", err
		}
		return filepath.ToSlash(rel), nil
	}
	return filepath.Abs(path)
}
