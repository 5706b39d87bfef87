// Package monorepo drives single-package extraction across the packages of
// a workspace and publishes the merged notes as one release.
package monorepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gh-release-changelog/gh-release-changelog/internal/changelog"
	"github.com/gh-release-changelog/gh-release-changelog/internal/ghclient"
	"github.com/gh-release-changelog/gh-release-changelog/internal/logging"
	"github.com/gh-release-changelog/gh-release-changelog/internal/repoinfo"
	"github.com/gh-release-changelog/gh-release-changelog/internal/semtag"
	"github.com/gh-release-changelog/gh-release-changelog/internal/workspace"
)

// DefaultConcurrency bounds parallel per-package extractions.
const DefaultConcurrency = 8

// Policy decides what a failed package extraction does to the run.
type Policy string

const (
	// PolicyAbort lets every package finish, then fails with all errors.
	PolicyAbort Policy = "abort"
	// PolicySkip logs failures as warnings and merges the other packages.
	PolicySkip Policy = "skip"
)

// Extractor extracts one package's release note.
type Extractor interface {
	Extract(ctx context.Context, opts changelog.Options) (*changelog.Result, error)
}

// Publisher creates the combined release.
type Publisher interface {
	CreateRelease(ctx context.Context, r ghclient.Release) (*ghclient.Created, error)
}

// Options describes one aggregation run.
type Options struct {
	// Cwd is the workspace root. Empty means the current directory.
	Cwd string
	// Workspaces overrides the patterns discovered in Cwd.
	Workspaces []string
	Tag        string
	DryRun     bool

	// Extract is the template for every package extraction. Tag, Cwd,
	// Label and SplitNote are set per package.
	Extract changelog.Options
	// Release carries the publish flags. Owner, Repo, Tag and Body are
	// filled in by the aggregator.
	Release ghclient.Release

	OnPackageError Policy
	// Concurrency bounds parallel extractions. Zero means DefaultConcurrency.
	Concurrency int
}

// Note is the contribution of one package.
type Note struct {
	Package           string `json:"package,omitempty"`
	ChangelogFilename string `json:"changelogFilename,omitempty"`
	ReleaseNote       string `json:"releaseNote"`
}

// Result is the outcome of an aggregation. An empty ReleaseNotes list is
// success: nothing had notes for the tag and nothing was published.
type Result struct {
	ReleaseNotes []Note            `json:"releaseNotes"`
	Workspaces   []string          `json:"workspaces"`
	ReleaseNote  string            `json:"releaseNote,omitempty"`
	RepoOwner    string            `json:"repoOwner"`
	RepoName     string            `json:"repoName"`
	Tag          string            `json:"tag"`
	Fallback     bool              `json:"fallback,omitempty"`
	Published    *ghclient.Created `json:"published,omitempty"`
}

// Aggregator merges per-package release notes into one release.
type Aggregator struct {
	Extractor Extractor
	Publisher Publisher
	Repo      repoinfo.Resolver
	Logger    logging.Logger
}

// Aggregate extracts the notes of opts.Tag from every selected package and,
// unless DryRun is set, publishes them as a single release.
func (a *Aggregator) Aggregate(ctx context.Context, opts Options) (*Result, error) {
	log := logging.OrNop(a.Logger)

	cwd, err := filepath.Abs(opts.Cwd)
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	patterns := opts.Workspaces
	if len(patterns) == 0 {
		if patterns, _, err = workspace.Discover(cwd); err != nil {
			return nil, err
		}
	}
	if len(patterns) == 0 {
		return nil, ErrNoWorkspaces
	}

	packages, err := workspace.FindPackages(cwd, patterns)
	if err != nil {
		return nil, err
	}
	if len(packages) == 0 {
		return nil, fmt.Errorf("%w: no package matches %s", ErrNoWorkspaces, strings.Join(patterns, ", "))
	}

	if opts.Tag == "" {
		return nil, changelog.ErrTagRequired
	}
	id, ok := semtag.Parse(opts.Tag)
	if !ok {
		return nil, &InvalidTagError{Tag: opts.Tag}
	}

	base := opts.Extract
	base.Tag = opts.Tag

	repo, err := a.Repo.Resolve(opts.Extract.RepoOwner, opts.Extract.RepoName, repoinfo.Options{
		Cwd:     cwd,
		SkipEnv: opts.Extract.SkipEnvRepoInfer,
	})
	switch {
	case err == nil:
		base.RepoOwner, base.RepoName = repo.Owner, repo.Name
	case errors.Is(err, repoinfo.ErrOwnerMissing), errors.Is(err, repoinfo.ErrNameMissing):
		// Every package resolves its own manifest instead.
		log.Debugf("No repository declared in %s, resolving it per package", cwd)
		repo = repoinfo.Info{}
	default:
		return nil, err
	}
	base.SplitNote = true
	base.Content = nil
	if filepath.IsAbs(base.ChangelogFilename) {
		// An absolute path would point every package at the same file.
		base.ChangelogFilename = ""
	}

	var results []*changelog.Result
	if id.Name != "" {
		pkg, err := selectPackage(packages, id.Name)
		if err != nil {
			return nil, err
		}
		res, err := a.extractPackage(ctx, base, pkg)
		if err != nil {
			return nil, err
		}
		results = []*changelog.Result{res}
	} else {
		if results, err = a.extractAll(ctx, base, packages, opts, log); err != nil {
			return nil, err
		}
	}

	out := &Result{
		Workspaces: patterns,
		RepoOwner:  repo.Owner,
		RepoName:   repo.Name,
		Tag:        opts.Tag,
	}

	if id.Name == "" && allEmpty(results) {
		log.Infof("No package has notes for %s, using the root changelog", opts.Tag)
		res, err := a.extractPackage(ctx, base, workspace.Package{Location: cwd})
		switch {
		case errors.Is(err, changelog.ErrChangelogNotFound):
			log.Infof("No root changelog in %s", cwd)
			results = nil
		case err != nil:
			return nil, err
		default:
			results = []*changelog.Result{res}
		}
		out.Fallback = true
	}

	var notes []string
	var tail string
	for _, res := range results {
		if res == nil || res.ReleaseNote == "" {
			continue
		}
		if tail == "" {
			tail = res.Tail
		}
		if out.RepoOwner == "" {
			out.RepoOwner, out.RepoName = res.RepoOwner, res.RepoName
		}
		out.ReleaseNotes = append(out.ReleaseNotes, Note{
			Package:           res.Label,
			ChangelogFilename: res.ChangelogFilename,
			ReleaseNote:       res.ReleaseNote,
		})
		notes = append(notes, res.ReleaseNote)
	}

	if len(notes) == 0 {
		log.Warnf("Release note of %s is empty, nothing to publish", opts.Tag)
		return out, nil
	}
	out.ReleaseNote = strings.Join(append(notes, tail), "\n\n")

	if opts.DryRun {
		return out, nil
	}
	if a.Publisher == nil {
		return nil, errors.New("publishing release: no publisher configured")
	}

	release := opts.Release
	release.Owner, release.Repo = out.RepoOwner, out.RepoName
	release.Tag = opts.Tag
	release.Body = out.ReleaseNote
	created, err := a.Publisher.CreateRelease(ctx, release)
	if err != nil {
		return nil, fmt.Errorf("publishing release: %w", err)
	}
	out.Published = created
	return out, nil
}

// extractAll runs every package concurrently. Results keep the package
// order. A failing package never cancels the others.
func (a *Aggregator) extractAll(ctx context.Context, base changelog.Options, packages []workspace.Package, opts Options, log logging.Logger) ([]*changelog.Result, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]*changelog.Result, len(packages))
	failures := make([]error, len(packages))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, pkg := range packages {
		g.Go(func() error {
			res, err := a.extractPackage(ctx, base, pkg)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, err := range failures {
		if err == nil {
			continue
		}
		if opts.OnPackageError == PolicySkip {
			log.Warnf("Skipping %v", err)
			continue
		}
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return results, nil
}

func (a *Aggregator) extractPackage(ctx context.Context, base changelog.Options, pkg workspace.Package) (*changelog.Result, error) {
	opts := base
	opts.Cwd = pkg.Location
	opts.Label = pkg.Name

	res, err := a.Extractor.Extract(ctx, opts)
	if err != nil {
		return nil, &PackageError{Package: pkg, Err: err}
	}
	return res, nil
}

func selectPackage(packages []workspace.Package, name string) (workspace.Package, error) {
	names := make([]string, 0, len(packages))
	for _, pkg := range packages {
		if pkg.Name == name {
			return pkg, nil
		}
		names = append(names, pkg.Name)
	}
	return workspace.Package{}, &PackageNotFoundError{Name: name, Available: names}
}

func allEmpty(results []*changelog.Result) bool {
	for _, res := range results {
		if res != nil && res.ReleaseNote != "" {
			return false
		}
	}
	return true
}
