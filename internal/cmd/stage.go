package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/phplint/internal/cache"
	"github.com/harrison/phplint/internal/display"
	"github.com/harrison/phplint/internal/logger"
)

// NewStageCommand creates the stage subcommand
func NewStageCommand(opts *globalOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Copy project files into the analyzer cache",
		Long: `Empty var/cache/<tool>/files and copy every tracked file of the
configured type into it, skipping paths matched by .phplintignore.
Each file is staged as <path>.php so the analyzer sees a PHP source
file; use "phplint original" to map staged paths back.

The cache is locked for the duration of the run. The reserved summary
file path is printed on success.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			return e.stage(cmd, quiet)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print per-file progress")

	return cmd
}

func (e *env) stage(cmd *cobra.Command, quiet bool) error {
	start := time.Now()

	sel, err := e.selectFiles(cmd)
	if err != nil {
		return err
	}
	repo, kept := sel.repo, sel.kept

	root, err := cache.New(e.cfg.ResolveCacheBase(e.root), e.cfg.Tool)
	if err != nil {
		return err
	}

	lock, err := root.Lock()
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			e.log.Warnf("failed to release cache lock: %v", err)
		}
	}()

	if err := root.Reset(); err != nil {
		return err
	}
	e.log.Debugf("staging into %s", root.FilesDir)

	var progress *display.ProgressIndicator
	if !quiet {
		progress = display.NewProgressIndicator(e.errOut, len(kept), display.ColorEnabled(e.errOut))
		progress.Start(root.FilesDir)
	}

	for _, rel := range kept {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		if err := root.StageFile(filepath.Join(e.root, filepath.FromSlash(rel)), cache.StagedName(rel)); err != nil {
			return err
		}
		if progress != nil {
			progress.Step(rel)
		}
	}
	if progress != nil {
		progress.Complete()
	}

	if err := verifyStaged(root, kept); err != nil {
		return err
	}

	repo.Check()
	for _, issue := range repo.Issues() {
		e.log.LogWarn(issue)
	}

	e.log.LogSummary(logger.Summary{
		Tracked:  len(sel.typed),
		Ignored:  len(sel.typed) - len(kept),
		Staged:   len(kept),
		Issues:   len(repo.Issues()),
		CacheDir: root.Dir,
		Duration: time.Since(start),
	})

	fmt.Fprintln(e.out, root.SummaryFile)
	return nil
}

// verifyStaged checks that the cache holds exactly one staged file per kept
// path. Names that differ only in case collapse on case-insensitive
// filesystems and show up here as missing.
func verifyStaged(root *cache.Root, kept []string) error {
	staged, err := root.StagedFiles()
	if err != nil {
		return err
	}

	present := make(map[string]bool, len(staged))
	for _, name := range staged {
		present[name] = true
	}

	var missing []string
	for _, rel := range kept {
		if !present[cache.StagedName(rel)] {
			missing = append(missing, rel)
		}
	}

	if len(missing) > 0 || len(staged) != len(kept) {
		return fmt.Errorf("%w: staged %d files for %d selected paths, missing %v",
			cache.ErrFilesystem, len(staged), len(kept), missing)
	}
	return nil
}
