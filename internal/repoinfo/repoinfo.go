// Package repoinfo resolves the GitHub owner and repository name a release
// should be published to.
//
// Resolution order: explicit values, the CI repository environment variable,
// then the "repository" field of the package manifest in the working
// directory. The environment is injected so resolution is testable without a
// real process environment.
package repoinfo

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gh-release-changelog/gh-release-changelog/internal/workspace"
)

// EnvRepository is set to "owner/name" by GitHub Actions.
const EnvRepository = "GITHUB_REPOSITORY"

var (
	// ErrOwnerMissing is returned when no source yields a repository owner.
	ErrOwnerMissing = errors.New(`"repoOwner" is required`)
	// ErrNameMissing is returned when no source yields a repository name.
	ErrNameMissing = errors.New(`"repoName" is required`)
)

var (
	githubURL       = regexp.MustCompile(`(?i)(?:https?|git(?:\+ssh)?)://(?:[^@/]+@)?(?:www\.)?github\.com[/:](.+)`)
	githubSCP       = regexp.MustCompile(`(?i)^[^@/]+@github\.com:(.+)`)
	githubShorthand = regexp.MustCompile(`(?i)^github:(.*)`)
)

// Info identifies a GitHub repository.
type Info struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// String returns "owner/name".
func (i Info) String() string {
	return i.Owner + "/" + i.Name
}

// Options controls a single resolution.
type Options struct {
	// Cwd is the directory whose package manifest is consulted.
	Cwd string
	// SkipEnv ignores the CI repository environment variable.
	SkipEnv bool
}

// Resolver infers repository information. A nil Getenv disables the
// environment lookup.
type Resolver struct {
	Getenv func(string) string
}

// Infer fills owner and name when both are empty. It never fails; missing
// values stay empty.
func (r Resolver) Infer(owner, name string, opts Options) Info {
	if owner != "" || name != "" {
		return Info{Owner: owner, Name: name}
	}

	if !opts.SkipEnv && r.Getenv != nil {
		if repo := r.Getenv(EnvRepository); repo != "" {
			owner, name = split(repo)
		}
	}
	if owner != "" || name != "" {
		return Info{Owner: owner, Name: name}
	}

	if opts.Cwd == "" {
		return Info{}
	}
	m, err := workspace.ReadManifest(opts.Cwd)
	if err != nil {
		return Info{}
	}
	owner, name = ParseRepositoryURL(m.RepositoryURL())
	return Info{Owner: owner, Name: name}
}

// Resolve is Infer followed by the required-field checks.
func (r Resolver) Resolve(owner, name string, opts Options) (Info, error) {
	info := r.Infer(owner, name, opts)
	if info.Owner == "" {
		return info, ErrOwnerMissing
	}
	if info.Name == "" {
		return info, ErrNameMissing
	}
	return info, nil
}

// ParseRepositoryURL extracts owner and name from the repository forms npm
// accepts: "owner/repo", "github:owner/repo", https and git+ssh URLs, and the
// scp-like "git@github.com:owner/repo.git".
func ParseRepositoryURL(raw string) (owner, name string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}

	for _, re := range []*regexp.Regexp{githubURL, githubSCP, githubShorthand} {
		if m := re.FindStringSubmatch(raw); m != nil {
			return split(m[1])
		}
	}
	return split(raw)
}

func split(path string) (owner, name string) {
	path = strings.TrimSpace(path)
	path = strings.TrimSuffix(path, "/")
	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	owner = parts[0]
	if len(parts) > 1 {
		name = parts[1]
	}
	return owner, name
}
