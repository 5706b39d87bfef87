package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gh-release-changelog/gh-release-changelog/internal/health"
	"github.com/gh-release-changelog/gh-release-changelog/internal/repoinfo"
)

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the working directory is ready for a release",
		Long: `Check that the working directory is ready for a release.

This command checks for:
  - Git history with a tag (optional)
  - A changelog file
  - The GitHub repository (flags, config, GITHUB_REPOSITORY or package.json)
  - A GitHub token (optional, dry runs work without one)
  - The workspace layout

Each check displays ✓ if passed, ○ if an optional check failed and ✗ otherwise.`,
		GroupID: GroupSetup,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := opts.workDir()
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig(cmd, dir, nil)
			if err != nil {
				return err
			}

			report := health.RunHealthChecks(cmd.Context(), health.Options{
				Dir:       dir,
				Changelog: cfg.Changelog,
				RepoOwner: cfg.RepoOwner,
				RepoName:  cfg.RepoName,
				Token:     cfg.GitHubToken,
				Repo:      repoinfo.Resolver{Getenv: os.Getenv},
				SkipEnv:   cfg.SkipEnvRepoInfer,
			})
			fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

			if !report.Passed {
				return NewExitError(ExitMissingPrerequisites)
			}
			return nil
		},
	}
}
