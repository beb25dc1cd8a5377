package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"
)

// newProject creates a git project with files added to the index and
// origin's HEAD pointing at defaultBranch.
func newProject(t *testing.T, files map[string]string, defaultBranch string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}

	if defaultBranch != "" {
		ref := plumbing.NewSymbolicReference(
			plumbing.NewRemoteHEADReferenceName("origin"),
			plumbing.NewRemoteReferenceName("origin", defaultBranch),
		)
		require.NoError(t, repo.Storer.SetReference(ref))
	}

	return dir
}

// run executes the root command against dir with the go-git backend.
func run(t *testing.T, dir string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--dir", dir, "--vcs", "go-git"}, args...))

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func samplePHPProject() map[string]string {
	return map[string]string{
		".phplintignore":         "# fixtures\ntests/*\n",
		"composer.json":          `{"autoload": {"psr-4": {"App\\": "src/"}}}`,
		"README.md":              "# app\n",
		"bin/console":            "#!/usr/bin/env php\n<?php\n",
		"src/Foo.php":            "<?php\nnamespace App;\nclass Foo {}\n",
		"src/Data/ArrayUtil.php": "<?php\nnamespace App\\Data;\nclass ArrayUtil {}\n",
		"tests/FooTest.php":      "<?php\n",
	}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--help returned error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "phplint") {
		t.Errorf("Help text should contain 'phplint', got: %s", output)
	}
	if !strings.Contains(output, "PSR-4") {
		t.Errorf("Help text should mention PSR-4, got: %s", output)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	want := map[string]bool{"files": false, "resolve": false, "check": false, "stage": false, "original": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}

	for _, flag := range []string{"config", "dir", "log-level", "vcs"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := NewRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--version returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "version") {
		t.Errorf("Version output should contain 'version', got: %s", buf.String())
	}
}

func TestInvalidConfiguration(t *testing.T) {
	dir := newProject(t, map[string]string{".phplint.yaml": "vcs: svn\n"}, "main")

	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--dir", dir, "files"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("expected invalid configuration error, got %v", err)
	}
}

func TestExplicitConfigFile(t *testing.T) {
	dir := newProject(t, samplePHPProject(), "main")
	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(cfgPath, []byte("file_type: md\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := run(t, dir, "--config", cfgPath, "files")
	if err != nil {
		t.Fatalf("files returned error: %v", err)
	}
	if strings.TrimSpace(stdout) != "README.md" {
		t.Errorf("expected README.md only, got %q", stdout)
	}
}

func TestMissingProjectDir(t *testing.T) {
	_, _, err := run(t, filepath.Join(t.TempDir(), "missing"), "files")
	if err == nil || !strings.Contains(err.Error(), "failed to access project dir") {
		t.Fatalf("expected project dir error, got %v", err)
	}
}
