package cli

import (
	"github.com/spf13/pflag"

	"github.com/gh-release-changelog/gh-release-changelog/internal/changelog"
	"github.com/gh-release-changelog/gh-release-changelog/internal/config"
	"github.com/gh-release-changelog/gh-release-changelog/internal/ignore"
	"github.com/gh-release-changelog/gh-release-changelog/internal/monorepo"
	"github.com/gh-release-changelog/gh-release-changelog/internal/npm"
)

// releaseFlags are the per-run options. Only flags the user set override
// the loaded configuration.
type releaseFlags struct {
	tag       string
	fromTag   string
	changelog string
	label     string

	repo      string
	repoOwner string
	repoName  string
	token     string
	apiURL    string

	draft                  bool
	prerelease             bool
	generateReleaseNotes   bool
	discussionCategoryName string
	targetCommitish        string
	dryRun                 bool

	initialDepth        int
	ignore              []string
	ignoreMode          string
	checkStandard       bool
	checkPkgAvailable   bool
	npmRegistry         string
	skipEnvRepoInfer    bool
	skipFromTagGitInfer bool

	workspaces     []string
	onPackageError string
	concurrency    int
}

// bindExtract registers the flags that shape the release note.
func (f *releaseFlags) bindExtract(fs *pflag.FlagSet) {
	fs.StringVarP(&f.tag, "tag", "t", "", "Release tag (default: the most recent tag reachable from HEAD)")
	fs.StringVar(&f.fromTag, "from-tag", "", "Previous tag for the compare link (default: inferred)")
	fs.StringVar(&f.changelog, "changelog", "", "Changelog path (default: CHANGELOG.md, RELEASE.md, RELEASE-NOTE.md or RELEASE-NOTES.md)")
	fs.StringVar(&f.label, "label", "", "Heading placed above the release note")

	fs.StringVar(&f.repo, "repo", "", "Repository as owner/name or URL (default: GITHUB_REPOSITORY, then package.json)")
	fs.StringVar(&f.repoOwner, "repo-owner", "", "Repository owner")
	fs.StringVar(&f.repoName, "repo-name", "", "Repository name")
	fs.StringVar(&f.token, "token", "", "GitHub token (default: GITHUB_TOKEN or GITHUB_AUTH)")
	fs.StringVar(&f.apiURL, "api-url", "", "GitHub Enterprise API URL, e.g. https://ghe.example.com/api/v3")

	fs.IntVar(&f.initialDepth, "initial-depth", changelog.DefaultInitialDepth, "Label heading depth when the section has no sub-headings")
	fs.StringArrayVar(&f.ignore, "ignore", nil, "Regular expression of blocks to leave out (repeatable)")
	fs.StringVar(&f.ignoreMode, "ignore-mode", string(ignore.Append), "How --ignore combines with the built-in rules: append or replace")
	fs.BoolVar(&f.checkStandard, "check-standard-version", true, "Refuse tags with a prerelease or build suffix")
	fs.BoolVar(&f.checkPkgAvailable, "check-pkg-available", false, "Require the package version to be published on npm")
	fs.StringVar(&f.npmRegistry, "npm-registry", npm.DefaultRegistry, "Registry used by --check-pkg-available")
	fs.BoolVar(&f.skipEnvRepoInfer, "skip-env-repo-infer", false, "Ignore GITHUB_REPOSITORY")
	fs.BoolVar(&f.skipFromTagGitInfer, "skip-from-tag-git-infer", false, "Do not ask git for the previous tag")

	fs.StringSliceVar(&f.workspaces, "workspaces", nil, "Workspace globs (default: discovered)")
	fs.StringVar(&f.onPackageError, "on-package-error", string(monorepo.PolicyAbort), "What a failing package does in a monorepo: abort or skip")
	fs.IntVar(&f.concurrency, "concurrency", monorepo.DefaultConcurrency, "Packages extracted in parallel")
}

// bindPublish registers the flags that only matter when publishing.
func (f *releaseFlags) bindPublish(fs *pflag.FlagSet) {
	fs.BoolVar(&f.draft, "draft", false, "Create a draft release")
	fs.BoolVar(&f.prerelease, "prerelease", false, "Mark the release as a prerelease")
	fs.BoolVar(&f.generateReleaseNotes, "generate-release-notes", false, "Let GitHub append its generated notes")
	fs.StringVar(&f.discussionCategoryName, "discussion-category-name", "", "Start a discussion in this category")
	fs.StringVar(&f.targetCommitish, "target-commitish", "", "Commitish the tag is created from when it does not exist")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Print the release as JSON instead of publishing it")
}

// apply copies every changed flag into cfg. Flags are visited in name
// order, so --repo-owner and --repo-name refine --repo.
func (f *releaseFlags) apply(fs *pflag.FlagSet, cfg *config.Configuration) {
	setters := map[string]func(){
		"tag":       func() { cfg.Tag = f.tag },
		"from-tag":  func() { cfg.FromTag = f.fromTag },
		"changelog": func() { cfg.Changelog = f.changelog },
		"label":     func() { cfg.Label = f.label },
		"repo": func() {
			cfg.Repo = f.repo
			cfg.RepoOwner, cfg.RepoName = "", ""
		},
		"repo-owner":               func() { cfg.RepoOwner = f.repoOwner },
		"repo-name":                func() { cfg.RepoName = f.repoName },
		"token":                    func() { cfg.GitHubToken = f.token },
		"api-url":                  func() { cfg.APIURL = f.apiURL },
		"draft":                    func() { cfg.Draft = f.draft },
		"prerelease":               func() { cfg.Prerelease = f.prerelease },
		"generate-release-notes":   func() { cfg.GenerateReleaseNotes = f.generateReleaseNotes },
		"discussion-category-name": func() { cfg.DiscussionCategoryName = f.discussionCategoryName },
		"target-commitish":         func() { cfg.TargetCommitish = f.targetCommitish },
		"dry-run":                  func() { cfg.DryRun = f.dryRun },
		"initial-depth":            func() { cfg.InitialDepth = f.initialDepth },
		"ignore":                   func() { cfg.IgnoreRules = f.ignore },
		"ignore-mode":              func() { cfg.IgnoreMode = ignore.Mode(f.ignoreMode) },
		"check-standard-version":   func() { cfg.CheckStandardVersion = f.checkStandard },
		"check-pkg-available":      func() { cfg.CheckPkgAvailable = f.checkPkgAvailable },
		"npm-registry":             func() { cfg.NPMRegistry = f.npmRegistry },
		"skip-env-repo-infer":      func() { cfg.SkipEnvRepoInfer = f.skipEnvRepoInfer },
		"skip-from-tag-git-infer":  func() { cfg.SkipFromTagGitInfer = f.skipFromTagGitInfer },
		"workspaces":               func() { cfg.Workspaces = f.workspaces },
		"on-package-error":         func() { cfg.OnPackageError = f.onPackageError },
		"concurrency":              func() { cfg.Concurrency = f.concurrency },
	}

	fs.Visit(func(flag *pflag.Flag) {
		if set, ok := setters[flag.Name]; ok {
			set()
		}
	})
}
