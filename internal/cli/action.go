package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gh-release-changelog/gh-release-changelog/internal/config"
	"github.com/gh-release-changelog/gh-release-changelog/internal/lifecycle"
	"github.com/gh-release-changelog/gh-release-changelog/internal/logging"
	"github.com/gh-release-changelog/gh-release-changelog/internal/release"
)

// envGitHubOutput names the step output file of the running job.
const envGitHubOutput = "GITHUB_OUTPUT"

func newActionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "action",
		Short: "Run as a GitHub Action step",
		Long: `Run as a GitHub Action step.

Options are read from the action inputs (INPUT_* environment variables) on top
of the project config. Messages are GitHub workflow commands, so warnings and
errors show up as annotations.

Tags that are not versions, and prerelease tags while checkStandardVersion is
on, are skipped with a warning instead of failing the job. The release note is
written to the step output "release_note".`,
		Example: `  # .github/workflows/release.yml
  - run: gh-release-changelog action
    env:
      INPUT_TOKEN: ${{ secrets.GITHUB_TOKEN }}
      INPUT_TAG: ${{ github.ref_name }}`,
		GroupID: GroupRelease,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, opts)
		},
	}
}

// runAction reports every failure as an error annotation itself and only
// returns the exit code.
func runAction(cmd *cobra.Command, opts *rootOptions) error {
	log := logging.NewActions(cmd.OutOrStdout())
	fail := func(err error) error {
		log.Errorf("%v", err)
		return NewExitError(ExitCode(err))
	}

	dir, err := opts.workDir()
	if err != nil {
		return fail(err)
	}
	load := opts.loadOptions(cmd, dir)
	load.Getenv = os.Getenv
	cfg, err := config.LoadAction(load)
	if err != nil {
		return fail(err)
	}

	runner, err := newRunner(cfg, dir, log, nil)
	if err != nil {
		return fail(err)
	}

	cfg.Tag = runner.ResolveTag(cmd.Context(), cfg.Tag)
	if reason := release.Skip(cfg.Tag, cfg.FromTag, cfg.CheckStandardVersion); reason != "" {
		log.Warnf("%s", reason)
		return nil
	}

	runOpts, err := releaseOptions(cfg, dir)
	if err != nil {
		return fail(err)
	}

	err = lifecycle.RunWithContext(cmd.Context(), lifecycle.LogHandler{Logger: log}, "action", func(ctx context.Context) error {
		outcome, err := runner.Run(ctx, runOpts)
		if err != nil {
			return err
		}
		if cfg.DryRun {
			log.Infof("Release note of %s:\n%s", outcome.Tag(), outcome.ReleaseNote())
		}
		return release.WriteOutput(os.Getenv(envGitHubOutput), release.OutputReleaseNote, outcome.ReleaseNote())
	})
	if err != nil {
		return fail(err)
	}
	return nil
}
