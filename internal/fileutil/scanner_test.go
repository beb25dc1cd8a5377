package fileutil

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("<?php\n"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   index.php
	//   README.md
	//   Bootstrap.PHP
	//   src/Foo.php
	//   src/Data/ArrayUtil.php
	//   src/Data/notes.txt
	//   .github/ci.php
	//   vendor/autoload.php
	writeTree(t, tmpDir, []string{
		"index.php",
		"README.md",
		"Bootstrap.PHP",
		"src/Foo.php",
		"src/Data/ArrayUtil.php",
		"src/Data/notes.txt",
		".github/ci.php",
		"vendor/autoload.php",
	})

	tests := []struct {
		name string
		opts ScanOptions
		want []string
	}{
		{
			name: "recursive skips hidden dirs",
			opts: ScanOptions{Relative: true},
			want: []string{
				"Bootstrap.PHP", "README.md", "index.php",
				"src/Data/ArrayUtil.php", "src/Data/notes.txt", "src/Foo.php",
				"vendor/autoload.php",
			},
		},
		{
			name: "include hidden",
			opts: ScanOptions{IncludeHidden: true, Relative: true},
			want: []string{
				".github/ci.php", "Bootstrap.PHP", "README.md", "index.php",
				"src/Data/ArrayUtil.php", "src/Data/notes.txt", "src/Foo.php",
				"vendor/autoload.php",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("ScanDirectory() error = %v", err)
			}
			if !reflect.DeepEqual(result.Files, tt.want) {
				t.Errorf("ScanDirectory() files = %v, want %v", result.Files, tt.want)
			}
			if len(result.Errors) != 0 {
				t.Errorf("unexpected non-fatal errors: %v", result.Errors)
			}
		})
	}
}

func TestScanDirectory_AbsolutePaths(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"b.php", "a/c.php"})

	result, err := ScanDirectory(tmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 files, got %v", result.Files)
	}
	for _, f := range result.Files {
		if !filepath.IsAbs(f) {
			t.Errorf("expected absolute path, got %s", f)
		}
		if !strings.HasPrefix(f, tmpDir) {
			t.Errorf("path %s is outside %s", f, tmpDir)
		}
	}
	if result.Files[0] > result.Files[1] {
		t.Errorf("files are not sorted: %v", result.Files)
	}
}

func TestScanDirectory_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.php")
	writeTree(t, tmpDir, []string{"file.php"})

	tests := []struct {
		name    string
		dir     string
		opts    ScanOptions
		wantErr string
	}{
		{"missing directory", filepath.Join(tmpDir, "missing"), ScanOptions{}, "failed to access directory"},
		{"file instead of directory", file, ScanOptions{}, "path is not a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScanDirectory(tt.dir, tt.opts)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestScanDirectory_EmptyDirectory(t *testing.T) {
	result, err := ScanDirectory(t.TempDir(), ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if result.Files == nil || len(result.Files) != 0 {
		t.Errorf("expected empty non-nil file list, got %v", result.Files)
	}
}
