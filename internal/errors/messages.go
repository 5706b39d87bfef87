package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/gh-release-changelog/gh-release-changelog/internal/changelog"
	"github.com/gh-release-changelog/gh-release-changelog/internal/config"
	"github.com/gh-release-changelog/gh-release-changelog/internal/ghclient"
	"github.com/gh-release-changelog/gh-release-changelog/internal/monorepo"
	"github.com/gh-release-changelog/gh-release-changelog/internal/repoinfo"
)

// Common error messages for the gh-release-changelog CLI.
// These templates ensure consistent, actionable error messages.

// TagRequired creates an error for a run without a tag.
func TagRequired(err error) *CLIError {
	e := NewArgumentErrorWithUsage(
		"tag is required",
		"gh-release-changelog --tag v1.2.3",
		"Pass the release tag with --tag",
		"Or run from a checkout where HEAD is reachable from a tag",
	)
	e.Err = err
	return e
}

// NonStandardVersion creates an error for a tag with a prerelease or build suffix.
func NonStandardVersion(err error) *CLIError {
	return Wrap(err, Argument,
		"Pass --check-standard-version=false to release prerelease tags",
	)
}

// ChangelogNotFound creates an error when no changelog file exists.
func ChangelogNotFound(err error) *CLIError {
	return Wrap(err, Prerequisite,
		"Add a CHANGELOG.md next to package.json",
		"Or point at the file with --changelog path/to/CHANGELOG.md",
	)
}

// PackageUnavailable creates an error for failed npm availability checks.
func PackageUnavailable(err error) *CLIError {
	return Wrap(err, Prerequisite,
		"Publish the package before creating the release",
		"Or drop --check-pkg-available",
	)
}

// RepoInfoMissing creates an error when owner or name cannot be inferred.
func RepoInfoMissing(err error) *CLIError {
	return Wrap(err, Configuration,
		"Pass --repo owner/name",
		"Or set GITHUB_REPOSITORY=owner/name",
		"Or add a \"repository\" field to package.json",
	)
}

// TokenMissing creates an error when publishing without a token.
func TokenMissing(err error) *CLIError {
	return Wrap(err, Configuration,
		"Set GITHUB_TOKEN (or GITHUB_AUTH) in the environment",
		"Or pass --token",
		"Use --dry-run to preview the release note without a token",
	)
}

// NoWorkspaces creates an error for a monorepo run without packages.
func NoWorkspaces(err error) *CLIError {
	return Wrap(err, Configuration,
		"Declare workspaces in package.json, pnpm-workspace.yaml or lerna.json",
		"Or pass them explicitly with --workspaces 'packages/*'",
	)
}

// PackageNotFound creates an error for a name-qualified tag naming no package.
func PackageNotFound(err error, available []string) *CLIError {
	remediation := []string{"Check the package name part of the tag"}
	if len(available) > 0 {
		remediation = append(remediation, "Available packages: "+strings.Join(available, ", "))
	}
	return Wrap(err, Argument, remediation...)
}

// InvalidConfig creates an error for a configuration that failed validation.
func InvalidConfig(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Check .gh-release-changelog.yml and GH_RELEASE_CHANGELOG_* variables",
		"Generate a commented template with: gh-release-changelog init",
	)
}

// GitHubRequestFailed creates an error for a rejected GitHub API call.
func GitHubRequestFailed(err error, status int) *CLIError {
	remediation := []string{"Check the GitHub status page and retry"}
	switch status {
	case http.StatusUnauthorized:
		remediation = []string{"The token is invalid or expired; create a new one"}
	case http.StatusForbidden, http.StatusNotFound:
		remediation = []string{
			"Make sure the token can write releases (contents: write)",
			"Check that the repository owner and name are correct",
		}
	case http.StatusUnprocessableEntity:
		remediation = []string{
			"A release for this tag may already exist",
			"Check that the tag has been pushed",
		}
	}
	return WrapWithMessage(err, Remote, "GitHub API request failed", remediation...)
}

// Classify converts err into a CLIError with remediation steps. Errors that
// are already CLIErrors are returned as is. Unknown errors become Runtime
// errors.
func Classify(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		nonStandard *changelog.NonStandardVersionError
		notFound    *monorepo.PackageNotFoundError
		invalidTag  *monorepo.InvalidTagError
		validation  *config.ValidationError
		ghErr       *github.ErrorResponse
	)

	switch {
	case goerrors.Is(err, changelog.ErrTagRequired), goerrors.Is(err, ghclient.ErrTagMissing):
		return TagRequired(err)
	case goerrors.As(err, &nonStandard):
		return NonStandardVersion(err)
	case goerrors.As(err, &invalidTag):
		return Wrap(err, Argument, "Use a version tag such as v1.2.3 or pkg@1.2.3")
	case goerrors.As(err, &notFound):
		return PackageNotFound(err, notFound.Available)
	case goerrors.Is(err, changelog.ErrChangelogNotFound):
		return ChangelogNotFound(err)
	case goerrors.Is(err, changelog.ErrManifestMissing), goerrors.Is(err, changelog.ErrPackageUnpublished):
		return PackageUnavailable(err)
	case goerrors.Is(err, repoinfo.ErrOwnerMissing), goerrors.Is(err, repoinfo.ErrNameMissing),
		goerrors.Is(err, ghclient.ErrOwnerMissing), goerrors.Is(err, ghclient.ErrNameMissing):
		return RepoInfoMissing(err)
	case goerrors.Is(err, ghclient.ErrTokenMissing):
		return TokenMissing(err)
	case goerrors.Is(err, ghclient.ErrReleaseNoteEmpty):
		return Wrap(err, Prerequisite, "Add notes under the tag's heading in the changelog")
	case goerrors.Is(err, monorepo.ErrNoWorkspaces):
		return NoWorkspaces(err)
	case goerrors.As(err, &validation):
		return InvalidConfig(err)
	case goerrors.As(err, &ghErr):
		status := 0
		if ghErr.Response != nil {
			status = ghErr.Response.StatusCode
		}
		return GitHubRequestFailed(err, status)
	}

	return &CLIError{
		Category: Runtime,
		Message:  fmt.Sprint(err),
		Err:      err,
	}
}
