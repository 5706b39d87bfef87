package changelog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gh-release-changelog/gh-release-changelog/internal/ignore"
	"github.com/gh-release-changelog/gh-release-changelog/internal/logging"
	"github.com/gh-release-changelog/gh-release-changelog/internal/npm"
	"github.com/gh-release-changelog/gh-release-changelog/internal/repoinfo"
	"github.com/gh-release-changelog/gh-release-changelog/internal/semtag"
	"github.com/gh-release-changelog/gh-release-changelog/internal/workspace"
)

var (
	// ErrTagRequired is returned when Options.Tag is empty.
	ErrTagRequired = errors.New("tag is required")
	// ErrManifestMissing is returned by the availability check when the
	// directory has no package.json.
	ErrManifestMissing = errors.New("package availability check: package.json not found")
	// ErrPackageUnpublished is returned when the registry does not know the
	// package version.
	ErrPackageUnpublished = errors.New("package is unpublished")
)

// NonStandardVersionError is returned when the standard-version gate is on
// and the tag carries a prerelease or build suffix, or no version at all.
type NonStandardVersionError struct {
	Tag string
}

func (e *NonStandardVersionError) Error() string {
	return fmt.Sprintf("tag %q is not a standard version", e.Tag)
}

// TagDescriber finds the most recent tag before a given tag.
type TagDescriber interface {
	PreviousTag(ctx context.Context, tag string) (string, error)
}

// PackageChecker reports whether a package version is published.
type PackageChecker interface {
	IsPublished(ctx context.Context, name, version string) (bool, error)
}

// Extractor extracts release notes. Every collaborator is optional: a nil
// Tags skips remote fromTag inference, a nil History skips VCS inference,
// and a nil Packages falls back to the public npm registry.
type Extractor struct {
	Tags     TagLister
	History  TagDescriber
	Packages PackageChecker
	Repo     repoinfo.Resolver
	Logger   logging.Logger
}

// Extract runs the validation steps, selects the section of opts.Tag and
// assembles the release note.
func (e *Extractor) Extract(ctx context.Context, opts Options) (*Result, error) {
	log := logging.OrNop(e.Logger)

	if opts.Tag == "" {
		return nil, ErrTagRequired
	}
	if opts.CheckStandardVersion && !semtag.IsStandardVersion(opts.Tag) {
		return nil, &NonStandardVersionError{Tag: opts.Tag}
	}

	cwd, err := filepath.Abs(opts.Cwd)
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	if opts.CheckPkgAvailable {
		if err := e.checkPublished(ctx, cwd, opts.Tag); err != nil {
			return nil, err
		}
	}

	filename, err := changelogPath(cwd, opts)
	if err != nil {
		return nil, err
	}

	repo, err := e.Repo.Resolve(opts.RepoOwner, opts.RepoName, repoinfo.Options{
		Cwd:     cwd,
		SkipEnv: opts.SkipEnvRepoInfer,
	})
	if err != nil {
		return nil, err
	}

	src := opts.Content
	if src == nil {
		if src, err = os.ReadFile(filename); err != nil {
			return nil, fmt.Errorf("reading changelog file: %w", err)
		}
	}

	rules := opts.IgnoreRules
	if rules == nil {
		rules = ignore.Defaults()
	}

	doc := Parse(src)
	seg := Scan(doc, Query{Tag: opts.Tag, FromTag: opts.FromTag, Rules: rules})
	body := RenderMarkdown(seg.Nodes, doc.Source)
	log.Debugf("Extracted %d blocks for %s from %s", len(seg.Nodes), opts.Tag, filename)

	fromTag := opts.FromTag
	if fromTag == "" && seg.Boundary != "" && e.Tags != nil {
		fromTag = inferFromTag(ctx, e.Tags, log, repo, opts.Tag, seg.Boundary)
	}
	if fromTag == "" && !opts.SkipFromTagGitInfer && e.History != nil {
		prev, err := e.History.PreviousTag(ctx, opts.Tag)
		if err != nil {
			log.Debugf("No previous tag for %s: %v", opts.Tag, err)
		} else {
			fromTag = prev
		}
	}

	var depth int
	if seg.Matched {
		depth = seg.Depth
		if depth == 0 {
			depth = opts.InitialDepth
		}
		if depth == 0 {
			depth = DefaultInitialDepth
		}
	}

	res := &Result{
		ChangelogFilename: filename,
		RepoOwner:         repo.Owner,
		RepoName:          repo.Name,
		Tag:               opts.Tag,
		FromTag:           fromTag,
		Label:             opts.Label,
		Depth:             depth,
		Head:              Heading(depth, opts.Label),
		Tail:              Footer(repo, fromTag, opts.Tag),
	}
	res.ReleaseNote = Assemble(res.Head, body, res.Tail, opts.SplitNote)
	return res, nil
}

// checkPublished requires the manifest in cwd to be published at the
// version of tag.
func (e *Extractor) checkPublished(ctx context.Context, cwd, tag string) error {
	m, err := workspace.ReadManifest(cwd)
	if errors.Is(err, workspace.ErrManifestNotFound) {
		return ErrManifestMissing
	}
	if err != nil {
		return fmt.Errorf("package availability check: %w", err)
	}

	checker := e.Packages
	if checker == nil {
		checker = npm.Checker{}
	}

	id, _ := semtag.Parse(tag)
	spec := npm.Spec(m.Name, id.Version)
	ok, err := checker.IsPublished(ctx, m.Name, id.Version)
	if err != nil {
		return fmt.Errorf("package availability check: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrPackageUnpublished, spec)
	}
	return nil
}

// changelogPath returns the absolute changelog path. With inline content
// and no file name it is empty.
func changelogPath(cwd string, opts Options) (string, error) {
	switch {
	case opts.ChangelogFilename != "":
		return resolvePath(cwd, opts.ChangelogFilename)
	case opts.Content != nil:
		return "", nil
	default:
		return FindChangelog(cwd)
	}
}

// Footer is the "Full Changelog" line: a compare link when fromTag is
// known, the commit list of tag otherwise.
func Footer(repo repoinfo.Info, fromTag, tag string) string {
	url := fmt.Sprintf("https://github.com/%s/%s/commits/%s", repo.Owner, repo.Name, tag)
	if fromTag != "" {
		url = fmt.Sprintf("https://github.com/%s/%s/compare/%s...%s", repo.Owner, repo.Name, fromTag, tag)
	}
	return "**Full Changelog**: " + url
}

// Heading renders label as a markdown heading of depth. It is empty unless
// both are set.
func Heading(depth int, label string) string {
	if depth <= 0 || label == "" {
		return ""
	}
	return strings.Repeat("#", depth) + " " + label
}

// Assemble joins head, body and tail with blank lines. An empty body gives
// an empty note whatever head and tail are.
func Assemble(head, body, tail string, splitNote bool) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}

	parts := make([]string, 0, 3)
	if head != "" {
		parts = append(parts, head)
	}
	parts = append(parts, body)
	if !splitNote && tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, "\n\n")
}
