package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/phplint/internal/config"
	"github.com/harrison/phplint/internal/display"
	"github.com/harrison/phplint/internal/logger"
	"github.com/harrison/phplint/internal/repository"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	dir        string
	logLevel   string
	vcs        string
}

// env is the per-invocation state built from flags and configuration.
type env struct {
	root   string
	cfg    *config.Config
	log    logger.Logger
	out    io.Writer
	errOut io.Writer
	color  bool
}

// NewRootCommand creates and returns the root cobra command for phplint
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "phplint",
		Short: "Project mapping and cache staging for PHP lint runs",
		Long: `phplint maps a PHP project for static analysis.

It lists the files git tracks, filters them through .phplintignore,
resolves class names to files using composer.json PSR-4 autoload rules,
and stages copies under var/cache/<tool>/files for the analyzer.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default <project>/"+config.FileName+")")
	flags.StringVar(&opts.dir, "dir", "", "project root (default: git top-level of the working directory)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&opts.vcs, "vcs", "", "repository backend: cli or go-git")

	cmd.AddCommand(NewFilesCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewStageCommand(opts))
	cmd.AddCommand(NewOriginalCommand(opts))

	return cmd
}

// setup resolves the project root, loads configuration and applies flag overrides.
func (o *globalOptions) setup(cmd *cobra.Command) (*env, error) {
	errOut := cmd.ErrOrStderr()

	root, err := o.projectRoot(cmd)
	if err != nil {
		return nil, err
	}

	configPath := o.configPath
	if configPath == "" {
		configPath = filepath.Join(root, config.FileName)
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	var logLevel, vcs *string
	if cmd.Flags().Changed("log-level") {
		logLevel = &o.logLevel
	}
	if cmd.Flags().Changed("vcs") {
		vcs = &o.vcs
	}
	cfg.MergeWithFlags(logLevel, vcs, nil)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewConsoleLogger(errOut, cfg.LogLevel)
	log.Debugf("project root: %s", root)

	return &env{
		root:   root,
		cfg:    cfg,
		log:    log,
		out:    cmd.OutOrStdout(),
		errOut: errOut,
		color:  display.ColorEnabled(cmd.OutOrStdout()),
	}, nil
}

// projectRoot returns --dir when given, else the git top-level of the working
// directory, else the working directory itself.
func (o *globalOptions) projectRoot(cmd *cobra.Command) (string, error) {
	if o.dir != "" {
		abs, err := filepath.Abs(o.dir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve project dir: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("failed to access project dir: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project dir is not a directory: %s", abs)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	root, err := repository.FindRoot(cmd.Context(), repository.NewShellCommandRunner(cwd))
	if err != nil {
		return cwd, nil
	}
	return root, nil
}

// vcs returns the repository backend selected by configuration.
func (e *env) vcs() repository.VCS {
	if e.cfg.VCS == config.VCSGoGit {
		return repository.NewGoGit(e.root)
	}
	return repository.NewGitCLI(e.root)
}

// openRepository opens the project repository with the configured backend.
func (e *env) openRepository(cmd *cobra.Command) (*repository.Repository, error) {
	e.log.Debugf("opening repository with %s backend", e.cfg.VCS)

	repo, err := repository.Open(cmd.Context(), e.vcs(), repository.Options{
		Root:           e.root,
		ExpectedBranch: e.cfg.ExpectedBranch,
	})
	if err != nil {
		return nil, err
	}

	e.log.Debugf("%d tracked files, default branch %q", len(repo.Files()), repo.DefaultBranch())
	return repo, nil
}
