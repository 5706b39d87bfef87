// Package release decides between a single-package and a monorepo release
// and runs it: it fills the tag from git, extracts the note and publishes it.
package release

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gh-release-changelog/gh-release-changelog/internal/changelog"
	"github.com/gh-release-changelog/gh-release-changelog/internal/ghclient"
	"github.com/gh-release-changelog/gh-release-changelog/internal/logging"
	"github.com/gh-release-changelog/gh-release-changelog/internal/monorepo"
	"github.com/gh-release-changelog/gh-release-changelog/internal/repoinfo"
	"github.com/gh-release-changelog/gh-release-changelog/internal/workspace"
)

// Mode is the kind of repository a run detected.
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeMonorepo Mode = "monorepo"
)

// CurrentTagger resolves the most recent tag reachable from HEAD.
type CurrentTagger interface {
	CurrentTag(ctx context.Context) (string, error)
}

// Publisher creates releases.
type Publisher interface {
	CreateRelease(ctx context.Context, r ghclient.Release) (*ghclient.Created, error)
}

// Options is one release run.
type Options struct {
	// Extract carries the extraction options. Its Cwd is the repository root.
	Extract changelog.Options
	// Release carries the publish flags.
	Release ghclient.Release
	DryRun  bool

	// Workspaces overrides workspace discovery.
	Workspaces     []string
	OnPackageError monorepo.Policy
	Concurrency    int
}

// Outcome is the result of a run. Exactly one of Single and Monorepo is set.
type Outcome struct {
	Mode      Mode              `json:"mode"`
	Single    *changelog.Result `json:"result,omitempty"`
	Monorepo  *monorepo.Result  `json:"monorepo,omitempty"`
	Published *ghclient.Created `json:"published,omitempty"`
}

// ReleaseNote returns the body that was, or would be, published.
func (o *Outcome) ReleaseNote() string {
	switch {
	case o == nil:
		return ""
	case o.Single != nil:
		return o.Single.ReleaseNote
	case o.Monorepo != nil:
		return o.Monorepo.ReleaseNote
	}
	return ""
}

// Tag returns the tag the run worked on.
func (o *Outcome) Tag() string {
	switch {
	case o == nil:
		return ""
	case o.Single != nil:
		return o.Single.Tag
	case o.Monorepo != nil:
		return o.Monorepo.Tag
	}
	return ""
}

// Runner runs releases. Tags may be nil, then an empty tag stays empty.
type Runner struct {
	Extractor *changelog.Extractor
	Publisher Publisher
	Tags      CurrentTagger
	Repo      repoinfo.Resolver
	Logger    logging.Logger
}

// ResolveTag fills an empty tag from git. Lookup failures leave it empty.
func (r *Runner) ResolveTag(ctx context.Context, tag string) string {
	if tag != "" || r.Tags == nil {
		return tag
	}
	current, err := r.Tags.CurrentTag(ctx)
	if err != nil {
		logging.OrNop(r.Logger).Debugf("No tag reachable from HEAD: %v", err)
		return ""
	}
	return current
}

// Run releases a single package or, when workspaces are configured, every
// package of the monorepo as one release.
func (r *Runner) Run(ctx context.Context, opts Options) (*Outcome, error) {
	log := logging.OrNop(r.Logger)

	cwd, err := filepath.Abs(opts.Extract.Cwd)
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	opts.Extract.Cwd = cwd
	opts.Extract.Tag = r.ResolveTag(ctx, opts.Extract.Tag)

	patterns := opts.Workspaces
	if len(patterns) == 0 {
		var source workspace.Source
		patterns, source, err = workspace.Discover(cwd)
		if err != nil {
			return nil, err
		}
		if len(patterns) > 0 {
			log.Debugf("Workspaces from %s: %v", source, patterns)
		}
	}

	if len(patterns) == 0 {
		log.Infof("Run in normal repo")
		return r.runSingle(ctx, opts)
	}
	log.Infof("Run in monorepo")
	return r.runMonorepo(ctx, opts, patterns)
}

func (r *Runner) runSingle(ctx context.Context, opts Options) (*Outcome, error) {
	log := logging.OrNop(r.Logger)

	res, err := r.extractor().Extract(ctx, opts.Extract)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Mode: ModeSingle, Single: res}

	if opts.DryRun {
		return out, nil
	}
	if res.ReleaseNote == "" {
		log.Warnf("Release note of %s is empty, nothing to publish", res.Tag)
		return out, nil
	}
	if r.Publisher == nil {
		return nil, errors.New("publishing release: no publisher configured")
	}

	release := opts.Release
	release.Owner, release.Repo = res.RepoOwner, res.RepoName
	release.Tag = res.Tag
	release.Body = res.ReleaseNote
	created, err := r.Publisher.CreateRelease(ctx, release)
	if err != nil {
		return nil, fmt.Errorf("publishing release: %w", err)
	}
	log.Infof("Published %s", created.HTMLURL)
	out.Published = created
	return out, nil
}

func (r *Runner) runMonorepo(ctx context.Context, opts Options, patterns []string) (*Outcome, error) {
	agg := &monorepo.Aggregator{
		Extractor: r.extractor(),
		Publisher: r.Publisher,
		Repo:      r.Repo,
		Logger:    r.Logger,
	}
	res, err := agg.Aggregate(ctx, monorepo.Options{
		Cwd:            opts.Extract.Cwd,
		Workspaces:     patterns,
		Tag:            opts.Extract.Tag,
		DryRun:         opts.DryRun,
		Extract:        opts.Extract,
		Release:        opts.Release,
		OnPackageError: opts.OnPackageError,
		Concurrency:    opts.Concurrency,
	})
	if err != nil {
		return nil, err
	}
	if res.Published != nil {
		logging.OrNop(r.Logger).Infof("Published %s", res.Published.HTMLURL)
	}
	return &Outcome{Mode: ModeMonorepo, Monorepo: res, Published: res.Published}, nil
}

func (r *Runner) extractor() *changelog.Extractor {
	if r.Extractor != nil {
		return r.Extractor
	}
	return &changelog.Extractor{Repo: r.Repo, Logger: r.Logger}
}
