package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/phplint/internal/display"
)

// NewCheckCommand creates the check subcommand
func NewCheckCommand(opts *globalOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check repository policy",
		Long: `Check the repository against project policy, such as the remote's
default branch matching expected_branch. Findings are advisory and are
printed as warnings.

Exit code: 0 unless the repository cannot be read, or --strict is given
and there are findings`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			repo, err := e.openRepository(cmd)
			if err != nil {
				return err
			}

			repo.Check()
			if !repo.HasIssues() {
				e.log.LogInfo("No repository issues found")
				return nil
			}

			found := repo.Issues()
			display.IssuesWarning(found, e.color).Display(e.out)

			if strict {
				return fmt.Errorf("%d repository issues found", len(found))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when issues are found")

	return cmd
}
