// Package ghclient talks to the GitHub REST API: it lists repository tags for
// lower-bound inference and creates releases.
package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/gh-release-changelog/gh-release-changelog/internal/version"
)

// Environment variables consulted for a token, in order.
var TokenEnvVars = []string{"GITHUB_TOKEN", "GITHUB_AUTH"}

// Precondition failures of CreateRelease, checked in declaration order.
var (
	ErrReleaseNoteEmpty = errors.New("releaseNote is empty when release github")
	ErrTokenMissing     = errors.New("githubToken is empty when release github")
	ErrOwnerMissing     = errors.New("repoOwner is empty when release github")
	ErrNameMissing      = errors.New("repoName is empty when release github")
	ErrTagMissing       = errors.New("tag is empty when release github")
)

// Release is the payload of a single release creation.
type Release struct {
	Owner                  string
	Repo                   string
	Tag                    string
	Body                   string
	Draft                  bool
	Prerelease             bool
	GenerateReleaseNotes   bool
	DiscussionCategoryName string
	TargetCommitish        string
}

// Created describes a release GitHub accepted.
type Created struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"htmlUrl"`
	Tag     string `json:"tag"`
}

// Client wraps a go-github client together with the token it was built with.
type Client struct {
	gh    *github.Client
	token string
}

// Options configures New.
type Options struct {
	Token string
	// BaseURL points at a GitHub Enterprise API root, e.g.
	// https://ghe.example.com/api/v3/. Empty means api.github.com.
	BaseURL    string
	HTTPClient *http.Client
}

// New builds a client. A missing token is allowed; tag listing then runs
// unauthenticated and CreateRelease fails with ErrTokenMissing.
func New(opts Options) (*Client, error) {
	gh := github.NewClient(opts.HTTPClient)
	gh.UserAgent = version.UserAgent()
	if opts.Token != "" {
		gh = gh.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing GitHub API URL %q: %w", opts.BaseURL, err)
		}
		gh.BaseURL = base
	}
	return &Client{gh: gh, token: opts.Token}, nil
}

// TokenFromEnv returns the first non-empty token environment variable.
func TokenFromEnv(getenv func(string) string) string {
	for _, key := range TokenEnvVars {
		if v := getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// HasToken reports whether the client is authenticated.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// ListTags returns every tag name of owner/repo in the order the
// matching-refs endpoint lists them.
func (c *Client) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	opts := &github.ReferenceListOptions{
		Ref:         "tags",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var tags []string
	for {
		refs, resp, err := c.gh.Git.ListMatchingRefs(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing tags of %s/%s: %w", owner, repo, err)
		}
		for _, ref := range refs {
			tags = append(tags, strings.TrimPrefix(ref.GetRef(), "refs/tags/"))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return tags, nil
}

// CreateRelease validates r and creates the release.
func (c *Client) CreateRelease(ctx context.Context, r Release) (*Created, error) {
	body := strings.TrimSpace(r.Body)
	if err := checkRelease(r, body, c.token); err != nil {
		return nil, err
	}

	req := &github.RepositoryRelease{
		TagName:              github.String(r.Tag),
		Body:                 github.String(body),
		Draft:                github.Bool(r.Draft),
		Prerelease:           github.Bool(r.Prerelease),
		GenerateReleaseNotes: github.Bool(r.GenerateReleaseNotes),
	}
	if r.DiscussionCategoryName != "" {
		req.DiscussionCategoryName = github.String(r.DiscussionCategoryName)
	}
	if r.TargetCommitish != "" {
		req.TargetCommitish = github.String(r.TargetCommitish)
	}

	rel, _, err := c.gh.Repositories.CreateRelease(ctx, r.Owner, r.Repo, req)
	if err != nil {
		return nil, fmt.Errorf("creating release %s for %s/%s: %w", r.Tag, r.Owner, r.Repo, err)
	}
	return &Created{ID: rel.GetID(), HTMLURL: rel.GetHTMLURL(), Tag: rel.GetTagName()}, nil
}

func checkRelease(r Release, body, token string) error {
	switch {
	case body == "":
		return ErrReleaseNoteEmpty
	case token == "":
		return ErrTokenMissing
	case r.Owner == "":
		return ErrOwnerMissing
	case r.Repo == "":
		return ErrNameMissing
	case r.Tag == "":
		return ErrTagMissing
	}
	return nil
}
