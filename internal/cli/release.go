package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gh-release-changelog/gh-release-changelog/internal/changelog"
	"github.com/gh-release-changelog/gh-release-changelog/internal/config"
	"github.com/gh-release-changelog/gh-release-changelog/internal/ghclient"
	"github.com/gh-release-changelog/gh-release-changelog/internal/git"
	"github.com/gh-release-changelog/gh-release-changelog/internal/lifecycle"
	"github.com/gh-release-changelog/gh-release-changelog/internal/logging"
	"github.com/gh-release-changelog/gh-release-changelog/internal/monorepo"
	"github.com/gh-release-changelog/gh-release-changelog/internal/npm"
	"github.com/gh-release-changelog/gh-release-changelog/internal/progress"
	"github.com/gh-release-changelog/gh-release-changelog/internal/release"
	"github.com/gh-release-changelog/gh-release-changelog/internal/repoinfo"
)

// runRelease is the root command: extract the note of the tag and publish it.
func runRelease(cmd *cobra.Command, opts *rootOptions, flags *releaseFlags) error {
	dir, err := opts.workDir()
	if err != nil {
		return err
	}
	cfg, err := opts.loadConfig(cmd, dir, flags)
	if err != nil {
		return err
	}

	log := opts.logger(cmd.ErrOrStderr())
	var display *progress.Display
	if !opts.quiet && !logging.InActions(os.Getenv) {
		display = progress.NewDisplay(cmd.ErrOrStderr(), capabilities(cmd.ErrOrStderr()))
	}

	runner, err := newRunner(cfg, dir, log, display)
	if err != nil {
		return err
	}
	runOpts, err := releaseOptions(cfg, dir)
	if err != nil {
		return err
	}

	return lifecycle.RunWithContext(cmd.Context(), lifecycle.LogHandler{Logger: log}, "release", func(ctx context.Context) error {
		outcome, err := runner.Run(ctx, runOpts)
		if err != nil {
			return err
		}
		if cfg.DryRun {
			return writeJSON(cmd.OutOrStdout(), outcome)
		}
		return nil
	})
}

// newRunner wires the GitHub client, git, the npm registry and the
// repository resolver into a release runner. A nil display publishes
// without progress output.
func newRunner(cfg *config.Configuration, dir string, log logging.Logger, display *progress.Display) (*release.Runner, error) {
	git.SetDebugLogger(log.Debugf)

	client, err := ghclient.New(ghclient.Options{Token: cfg.GitHubToken, BaseURL: cfg.APIURL})
	if err != nil {
		return nil, err
	}
	if !client.HasToken() {
		log.Debugf("No GitHub token configured, listing tags unauthenticated")
	}

	history := git.Describer{Dir: dir}
	repo := repoinfo.Resolver{Getenv: os.Getenv}
	runner := &release.Runner{
		Extractor: &changelog.Extractor{
			Tags:     ghclient.NewTagCache(client.ListTags),
			History:  history,
			Packages: npm.Checker{Registry: cfg.NPMRegistry},
			Repo:     repo,
			Logger:   log,
		},
		Publisher: client,
		Tags:      history,
		Repo:      repo,
		Logger:    log,
	}
	if display != nil {
		runner.Publisher = &trackedPublisher{publisher: client, display: display}
	}
	return runner, nil
}

// releaseOptions converts the configuration into runner options.
func releaseOptions(cfg *config.Configuration, dir string) (release.Options, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return release.Options{}, err
	}
	return release.Options{
		Extract: changelog.Options{
			Cwd:                  dir,
			ChangelogFilename:    cfg.Changelog,
			Tag:                  cfg.Tag,
			FromTag:              cfg.FromTag,
			Label:                cfg.Label,
			RepoOwner:            cfg.RepoOwner,
			RepoName:             cfg.RepoName,
			IgnoreRules:          rules,
			InitialDepth:         cfg.InitialDepth,
			CheckStandardVersion: cfg.CheckStandardVersion,
			CheckPkgAvailable:    cfg.CheckPkgAvailable,
			SkipEnvRepoInfer:     cfg.SkipEnvRepoInfer,
			SkipFromTagGitInfer:  cfg.SkipFromTagGitInfer,
		},
		Release: ghclient.Release{
			Draft:                  cfg.Draft,
			Prerelease:             cfg.Prerelease,
			GenerateReleaseNotes:   cfg.GenerateReleaseNotes,
			DiscussionCategoryName: cfg.DiscussionCategoryName,
			TargetCommitish:        cfg.TargetCommitish,
		},
		DryRun:         cfg.DryRun,
		Workspaces:     cfg.Workspaces,
		OnPackageError: monorepo.Policy(cfg.OnPackageError),
		Concurrency:    cfg.Concurrency,
	}, nil
}

// trackedPublisher shows a spinner while the release is created.
type trackedPublisher struct {
	publisher release.Publisher
	display   *progress.Display
}

func (p *trackedPublisher) CreateRelease(ctx context.Context, r ghclient.Release) (*ghclient.Created, error) {
	var created *ghclient.Created
	err := p.display.Track(
		fmt.Sprintf("Creating release %s in %s/%s", r.Tag, r.Owner, r.Repo),
		fmt.Sprintf("Created release %s", r.Tag),
		func() error {
			var err error
			created, err = p.publisher.CreateRelease(ctx, r)
			return err
		},
	)
	return created, err
}

// capabilities detects the terminal behind w. Writers that are not files
// are treated as pipes.
func capabilities(w io.Writer) progress.TerminalCapabilities {
	if f, ok := w.(*os.File); ok {
		return progress.DetectTerminalCapabilities(f)
	}
	return progress.TerminalCapabilities{}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
