// Package cli provides the Cobra-based command line of gh-release-changelog.
// The root command publishes a GitHub release from the changelog section of
// a tag, in a single package or a monorepo. Subcommands preview the note
// (extract), run inside a GitHub Action (action), scaffold configuration
// (init), check release readiness (doctor) and print build info (version).
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gh-release-changelog/gh-release-changelog/internal/config"
	clierrors "github.com/gh-release-changelog/gh-release-changelog/internal/errors"
	"github.com/gh-release-changelog/gh-release-changelog/internal/logging"
)

// Command group IDs for organizing help output
const (
	GroupRelease = "release"
	GroupSetup   = "setup"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	cwd        string
	envFile    string
	debug      bool
	quiet      bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	flags := &releaseFlags{}

	cmd := &cobra.Command{
		Use:   "gh-release-changelog",
		Short: "Publish GitHub releases from your changelog",
		Long: `gh-release-changelog publishes a GitHub release whose body is the changelog
section of a tag.

The section starts at the heading that names the tag and ends at the next
version heading. In a monorepo (pnpm-workspace.yaml, package.json workspaces or
lerna.json) the sections of every package are merged into one release.

Configuration precedence (highest to lowest):
  1. Command line flags
  2. Environment variables (GH_RELEASE_CHANGELOG_*, also read from .env)
  3. Project config (.gh-release-changelog.yml or .json)
  4. User config (~/.config/gh-release-changelog/config.yml)
  5. Built-in defaults`,
		Example: `  # Release the tag HEAD points at
  gh-release-changelog

  # Release an explicit tag as a draft
  gh-release-changelog --tag v1.2.0 --draft

  # Print what would be published
  gh-release-changelog --tag v1.2.0 --dry-run

  # Preview the release note in the terminal
  gh-release-changelog extract v1.2.0`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd, opts, flags)
		},
	}

	cmd.AddGroup(&cobra.Group{ID: GroupRelease, Title: "Release:"})
	cmd.AddGroup(&cobra.Group{ID: GroupSetup, Title: "Setup:"})
	cmd.SetHelpCommandGroupID(GroupSetup)
	cmd.SetCompletionCommandGroupID(GroupSetup)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine(), "Run '"+c.CommandPath()+" --help' for usage")
	})

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: .gh-release-changelog.yml in the working directory)")
	pf.StringVarP(&opts.cwd, "cwd", "C", "", "Run as if started in this directory")
	pf.StringVar(&opts.envFile, "env-file", "", "Dotenv file to read (default: .env in the working directory)")
	pf.BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Only print warnings and errors")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	flags.bindExtract(cmd.Flags())
	flags.bindPublish(cmd.Flags())

	cmd.AddCommand(
		newExtractCmd(opts),
		newActionCmd(opts),
		newInitCmd(opts),
		newDoctorCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	var exit *exitError
	if !errors.As(err, &exit) {
		clierrors.FprintError(stderr, err)
	}
	return ExitCode(err)
}

// usageArgs turns positional argument errors into argument errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
		}
		return nil
	}
}

// workDir returns the absolute working directory.
func (o *rootOptions) workDir() (string, error) {
	dir := o.cwd
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", clierrors.NewArgumentError(
			fmt.Sprintf("working directory %s does not exist", abs),
			"Check the path passed with --cwd",
		)
	}
	return abs, nil
}

func (o *rootOptions) loadOptions(cmd *cobra.Command, dir string) config.LoadOptions {
	envFile := o.envFile
	if envFile == "" {
		envFile = filepath.Join(dir, ".env")
	}
	return config.LoadOptions{
		ProjectDir:        dir,
		ProjectConfigPath: o.configPath,
		WarningWriter:     cmd.ErrOrStderr(),
		EnvFile:           envFile,
	}
}

// loadConfig loads the layered configuration and applies the flags that
// were set on cmd. A nil flags loads configuration only.
func (o *rootOptions) loadConfig(cmd *cobra.Command, dir string, flags *releaseFlags) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(o.loadOptions(cmd, dir))
	if err != nil {
		return nil, err
	}
	if flags == nil {
		return cfg, nil
	}

	flags.apply(cmd.Flags(), cfg)
	if err := cfg.Normalize(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger picks the GitHub Actions sink inside a workflow and a console
// sink otherwise.
func (o *rootOptions) logger(w io.Writer) logging.Logger {
	return logging.FromEnv(w, os.Getenv, logging.ConsoleOptions{
		Quiet:   o.quiet,
		Debug:   o.debug,
		NoColor: o.noColor,
	})
}
