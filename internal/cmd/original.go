package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/phplint/internal/cache"
)

// NewOriginalCommand creates the original subcommand
func NewOriginalCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "original <staged-path>...",
		Short: "Map staged cache paths back to project paths",
		Long: `Translate paths reported by the analyzer, either absolute or relative
to the cache base, back to the project-relative files they were staged
from. Paths outside the staging directory are printed unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			root, err := cache.New(e.cfg.ResolveCacheBase(e.root), e.cfg.Tool)
			if err != nil {
				return err
			}

			for _, staged := range args {
				fmt.Fprintln(e.out, root.OriginalPathOf(staged))
			}
			return nil
		},
	}

	return cmd
}
