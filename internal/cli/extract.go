package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gh-release-changelog/gh-release-changelog/internal/changelog"
	"github.com/gh-release-changelog/gh-release-changelog/internal/lifecycle"
)

func newExtractCmd(opts *rootOptions) *cobra.Command {
	flags := &releaseFlags{}
	var asJSON, plain bool

	cmd := &cobra.Command{
		Use:   "extract [tag]",
		Short: "Print the release note of a tag without publishing it",
		Long: `Print the release note of a tag without publishing it.

On a terminal the note is shown with colored section headings. Use --plain for
the raw markdown and --json for the full extraction result, including the
changelog file, the resolved repository and the inferred previous tag.

In a monorepo the merged note of every package is printed.`,
		Example: `  # Preview the note of the tag HEAD points at
  gh-release-changelog extract

  # Raw markdown, e.g. to pipe into another tool
  gh-release-changelog extract v1.2.0 --plain

  # Full result as JSON
  gh-release-changelog extract v1.2.0 --json`,
		GroupID: GroupRelease,
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("tag", args[0]); err != nil {
					return err
				}
			}
			return runExtract(cmd, opts, flags, asJSON, plain)
		},
	}

	flags.bindExtract(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the extraction result as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print the markdown without terminal styling")
	cmd.MarkFlagsMutuallyExclusive("json", "plain")
	return cmd
}

func runExtract(cmd *cobra.Command, opts *rootOptions, flags *releaseFlags, asJSON, plain bool) error {
	dir, err := opts.workDir()
	if err != nil {
		return err
	}
	cfg, err := opts.loadConfig(cmd, dir, flags)
	if err != nil {
		return err
	}
	cfg.DryRun = true

	log := opts.logger(cmd.ErrOrStderr())
	runner, err := newRunner(cfg, dir, log, nil)
	if err != nil {
		return err
	}
	runOpts, err := releaseOptions(cfg, dir)
	if err != nil {
		return err
	}

	return lifecycle.RunWithContext(cmd.Context(), lifecycle.LogHandler{Logger: log}, "extract", func(ctx context.Context) error {
		outcome, err := runner.Run(ctx, runOpts)
		if err != nil {
			return err
		}
		if outcome.Single != nil {
			log.Debugf("%s", changelog.Summary(outcome.Single))
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), outcome)
		}

		note := outcome.ReleaseNote()
		if note == "" {
			log.Warnf("No release note found for %s", outcome.Tag())
			return nil
		}
		caps := capabilities(cmd.OutOrStdout())
		return changelog.FormatTerminal(note, cmd.OutOrStdout(), changelog.FormatOptions{
			Plain:    plain || !caps.IsTTY || !caps.SupportsColor,
			MaxWidth: caps.Width,
		})
	})
}
