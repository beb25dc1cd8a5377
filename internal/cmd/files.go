package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/phplint/internal/ignore"
	"github.com/harrison/phplint/internal/repository"
)

// NewFilesCommand creates the files subcommand
func NewFilesCommand(opts *globalOptions) *cobra.Command {
	var fileType string
	var noIgnore bool

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List tracked files of one type",
		Long: `List the files git tracks that classify as the given type, in git's
listing order. Paths matched by .phplintignore are left out unless
--no-ignore is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("type") {
				e.cfg.MergeWithFlags(nil, nil, &fileType)
			}

			sel, err := e.selectFiles(cmd)
			if err != nil {
				return err
			}

			paths := sel.kept
			if noIgnore {
				paths = sel.typed
			}
			for _, p := range paths {
				fmt.Fprintln(e.out, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&fileType, "type", "t", "", "file type to list (default from config, php)")
	cmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "do not apply "+ignore.FileName)

	return cmd
}

// selection is the outcome of listing and filtering tracked files.
type selection struct {
	repo  *repository.Repository
	typed []string // tracked files of the configured type
	kept  []string // typed minus ignored paths
}

// selectFiles opens the repository and returns tracked paths of the configured
// type before and after applying the ignore list.
func (e *env) selectFiles(cmd *cobra.Command) (*selection, error) {
	t, err := repository.ParseFileType(e.cfg.FileType)
	if err != nil {
		return nil, err
	}

	repo, err := e.openRepository(cmd)
	if err != nil {
		return nil, err
	}

	rules, err := ignore.Load(e.root)
	if err != nil {
		return nil, err
	}

	typed := repo.FilesByType(t)
	kept := rules.Filter(typed)
	e.log.Debugf("%d of %d %s files ignored by %d patterns", len(typed)-len(kept), len(typed), t, rules.Len())

	return &selection{repo: repo, typed: typed, kept: kept}, nil
}
