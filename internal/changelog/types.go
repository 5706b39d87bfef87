package changelog

import (
	"github.com/yuin/goldmark/ast"

	"github.com/gh-release-changelog/gh-release-changelog/internal/ignore"
)

// DefaultInitialDepth is the heading depth used for the label when the
// release section contains no sub-headings.
const DefaultInitialDepth = 4

// Options describes a single extraction. Zero values mean "not set"; callers
// that want the standard-version gate must enable it explicitly.
type Options struct {
	// Cwd is the directory the changelog, manifest and relative paths are
	// resolved against. Empty means the current directory.
	Cwd string
	// ChangelogFilename is the changelog path. Empty triggers discovery.
	ChangelogFilename string
	// Content, when non-nil, is used instead of reading ChangelogFilename.
	Content []byte

	Tag     string
	FromTag string
	Label   string

	RepoOwner string
	RepoName  string

	// IgnoreRules filters collected blocks. Nil means ignore.Defaults().
	IgnoreRules ignore.Rules
	// InitialDepth is the label depth when no sub-heading was seen.
	// Zero means DefaultInitialDepth.
	InitialDepth int
	// SplitNote leaves the footer out of ReleaseNote so a caller can
	// append a single shared footer.
	SplitNote bool

	CheckStandardVersion bool
	CheckPkgAvailable    bool
	SkipEnvRepoInfer     bool
	SkipFromTagGitInfer  bool
}

// Result is the outcome of one extraction. An empty ReleaseNote is a valid
// result: the version had no heading or all of its content was ignored.
type Result struct {
	ReleaseNote       string `json:"releaseNote"`
	Head              string `json:"head,omitempty"`
	Tail              string `json:"tail"`
	ChangelogFilename string `json:"changelogFilename,omitempty"`
	RepoOwner         string `json:"repoOwner"`
	RepoName          string `json:"repoName"`
	Tag               string `json:"tag"`
	FromTag           string `json:"fromTag,omitempty"`
	Label             string `json:"label,omitempty"`
	// Depth is zero when no heading matched the tag.
	Depth int `json:"depth,omitempty"`
}

// Segment is the block list selected for one version.
type Segment struct {
	// Nodes are siblings of the matched heading in document order.
	Nodes []ast.Node
	// Matched reports whether a heading for the tag was found.
	Matched bool
	// Depth is the smallest (level - 1) of the collected sub-headings with
	// level > 1, or zero when there were none.
	Depth int
	// Boundary is the text of the version heading that ended the scan. It is
	// empty when the scan ran to the last sibling.
	Boundary string
}
