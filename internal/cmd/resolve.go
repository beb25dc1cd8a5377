package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/phplint/internal/autoload"
)

// NewResolveCommand creates the resolve subcommand
func NewResolveCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   `resolve <Class\Name>...`,
		Short: "Resolve class names to files using PSR-4 autoload rules",
		Long: `Print the project-relative file for each fully-qualified class name,
one per line, using the autoload.psr-4 section of composer.json.
Resolution is lexical; the file does not need to exist.

Exit code: 0 if every name resolved, 1 otherwise`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			composer := e.cfg.ComposerFile
			if !filepath.IsAbs(composer) {
				composer = filepath.Join(e.root, composer)
			}
			mapper, err := autoload.Load(composer)
			if err != nil {
				return err
			}
			e.log.Debugf("loaded %d PSR-4 prefixes from %s", len(mapper.Entries()), composer)

			missing := 0
			for _, name := range args {
				path, ok := mapper.Resolve(name)
				if !ok {
					e.log.Errorf("no PSR-4 prefix matches %s", name)
					missing++
					continue
				}
				fmt.Fprintln(e.out, path)
			}

			if missing > 0 {
				return fmt.Errorf("%d of %d class names could not be resolved", missing, len(args))
			}
			return nil
		},
	}

	return cmd
}
