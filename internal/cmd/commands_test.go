package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/phplint/internal/cache"
	"github.com/harrison/phplint/internal/repository"
)

func lines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestFilesCommand(t *testing.T) {
	dir := newProject(t, samplePHPProject(), "main")

	t.Run("php files after ignore", func(t *testing.T) {
		stdout, _, err := run(t, dir, "files")
		require.NoError(t, err)
		assert.Equal(t, []string{"bin/console", "src/Data/ArrayUtil.php", "src/Foo.php"}, lines(stdout))
	})

	t.Run("no-ignore", func(t *testing.T) {
		stdout, _, err := run(t, dir, "files", "--no-ignore")
		require.NoError(t, err)
		assert.Contains(t, lines(stdout), "tests/FooTest.php")
	})

	t.Run("other type", func(t *testing.T) {
		stdout, _, err := run(t, dir, "files", "--type", "json")
		require.NoError(t, err)
		assert.Equal(t, []string{"composer.json"}, lines(stdout))
	})

	t.Run("unknown type", func(t *testing.T) {
		_, _, err := run(t, dir, "files", "--type", "cobol")
		assert.True(t, errors.Is(err, repository.ErrUnknownFileType))
	})
}

func TestFilesCommandNotARepository(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "files")
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrProcess))
}

func TestResolveCommand(t *testing.T) {
	dir := newProject(t, samplePHPProject(), "main")

	stdout, _, err := run(t, dir, "resolve", `App\Data\ArrayUtil`, `App\Foo`)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Data/ArrayUtil.php", "src/Foo.php"}, lines(stdout))

	stdout, stderr, err := run(t, dir, "resolve", `App\Foo`, `Vendor\Thing`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 class names could not be resolved")
	assert.Equal(t, []string{"src/Foo.php"}, lines(stdout))
	assert.Contains(t, stderr, `no PSR-4 prefix matches Vendor\Thing`)
}

func TestResolveCommandMissingComposer(t *testing.T) {
	dir := newProject(t, map[string]string{"a.php": "<?php\n"}, "main")

	_, _, err := run(t, dir, "resolve", `App\Foo`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCheckCommand(t *testing.T) {
	t.Run("mismatched branch is advisory", func(t *testing.T) {
		dir := newProject(t, samplePHPProject(), "develop")

		stdout, _, err := run(t, dir, "check")
		require.NoError(t, err)
		assert.Contains(t, stdout, "1 repository issue")
		assert.Contains(t, stdout, `Default branch is "develop", expected "main"`)
	})

	t.Run("strict fails on advisories", func(t *testing.T) {
		dir := newProject(t, samplePHPProject(), "develop")

		_, _, err := run(t, dir, "check", "--strict")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 repository issues found")
	})

	t.Run("configured branch", func(t *testing.T) {
		files := samplePHPProject()
		files[".phplint.yaml"] = "expected_branch: develop\n"
		dir := newProject(t, files, "develop")

		stdout, stderr, err := run(t, dir, "check", "--strict")
		require.NoError(t, err)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "No repository issues found")
	})

	t.Run("missing remote head", func(t *testing.T) {
		dir := newProject(t, samplePHPProject(), "")

		_, _, err := run(t, dir, "check")
		require.Error(t, err)
		assert.True(t, errors.Is(err, repository.ErrNoDefaultBranch))
	})
}

func TestStageCommand(t *testing.T) {
	dir := newProject(t, samplePHPProject(), "main")

	// Leftovers from an earlier run must be purged.
	stale := filepath.Join(dir, "var", "cache", "pdepend", "files", "stale.php")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("<?php\n"), 0644))

	stdout, stderr, err := run(t, dir, "stage")
	require.NoError(t, err)

	cacheDir := filepath.Join(dir, "var", "cache", "pdepend")
	assert.Equal(t, filepath.Join(cacheDir, "summary.xml"), strings.TrimSpace(stdout))
	assert.Contains(t, stderr, "[1/3] bin/console")
	assert.Contains(t, stderr, "Staged 3/4 files (1 ignored, 0 issues)")

	staged := filepath.Join(cacheDir, "files")
	for _, rel := range []string{"bin/console.php", "src/Foo.php.php", "src/Data/ArrayUtil.php.php"} {
		_, err := os.Stat(filepath.Join(staged, filepath.FromSlash(rel)))
		assert.NoError(t, err, "expected staged file %s", rel)
	}
	for _, rel := range []string{"stale.php", "tests/FooTest.php.php"} {
		_, err := os.Stat(filepath.Join(staged, filepath.FromSlash(rel)))
		assert.True(t, os.IsNotExist(err), "did not expect %s", rel)
	}

	got, err := os.ReadFile(filepath.Join(staged, "src", "Foo.php.php"))
	require.NoError(t, err)
	assert.Equal(t, samplePHPProject()["src/Foo.php"], string(got))
}

func TestStageCommandQuietWithCustomCache(t *testing.T) {
	files := samplePHPProject()
	files[".phplint.yaml"] = "tool: phpmd\ncache_base: build\n"
	dir := newProject(t, files, "develop")

	stdout, stderr, err := run(t, dir, "stage", "--quiet")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "build", "var", "cache", "phpmd", "summary.xml"), strings.TrimSpace(stdout))
	assert.NotContains(t, stderr, "[1/3]")
	assert.Contains(t, stderr, `[WARN] Default branch is "develop", expected "main"`)
	assert.Contains(t, stderr, "1 issues")
}

func TestOriginalCommand(t *testing.T) {
	dir := newProject(t, samplePHPProject(), "main")
	filesDir := filepath.Join(dir, "var", "cache", "pdepend", "files")

	stdout, _, err := run(t, dir, "original",
		"var/cache/pdepend/files/src/Foo.php.php",
		filepath.Join(filesDir, "bin", "console.php"),
		"src/Other.php",
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Foo.php", "bin/console", "src/Other.php"}, lines(stdout))
}

func TestStageThenOriginalRoundTrip(t *testing.T) {
	dir := newProject(t, samplePHPProject(), "main")

	_, _, err := run(t, dir, "stage", "--quiet")
	require.NoError(t, err)

	filesDir := filepath.Join(dir, "var", "cache", "pdepend", "files")
	var staged []string
	require.NoError(t, filepath.WalkDir(filesDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		staged = append(staged, path)
		return nil
	}))

	stdout, _, err := run(t, dir, append([]string{"original"}, staged...)...)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bin/console", "src/Data/ArrayUtil.php", "src/Foo.php"}, lines(stdout))
}

func TestVerifyStaged(t *testing.T) {
	project := t.TempDir()
	writeSource := func(rel string) string {
		path := filepath.Join(project, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("<?php\n"), 0644))
		return path
	}

	root, err := cache.Initialize(t.TempDir(), cache.DefaultTool)
	require.NoError(t, err)

	for _, rel := range []string{"src/Foo.php", "bin/console"} {
		require.NoError(t, root.StageFile(writeSource(rel), cache.StagedName(rel)))
	}

	t.Run("every path staged", func(t *testing.T) {
		assert.NoError(t, verifyStaged(root, []string{"src/Foo.php", "bin/console"}))
	})

	t.Run("selected path missing from cache", func(t *testing.T) {
		err := verifyStaged(root, []string{"src/Foo.php", "bin/console", "src/Bar.php"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, cache.ErrFilesystem))
		assert.Contains(t, err.Error(), "src/Bar.php")
	})

	t.Run("stray file in cache", func(t *testing.T) {
		err := verifyStaged(root, []string{"src/Foo.php"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "staged 2 files for 1 selected paths")
	})
}
