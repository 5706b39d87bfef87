// Package health checks whether a directory is ready for a release: a git
// history with tags, a changelog, resolvable repository information, a token
// and the workspace layout. The results back the 'gh-release-changelog doctor'
// command.
package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gh-release-changelog/gh-release-changelog/internal/changelog"
	"github.com/gh-release-changelog/gh-release-changelog/internal/git"
	"github.com/gh-release-changelog/gh-release-changelog/internal/repoinfo"
	"github.com/gh-release-changelog/gh-release-changelog/internal/workspace"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks never fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options is the directory and the settings the checks run against.
type Options struct {
	Dir       string
	Changelog string
	RepoOwner string
	RepoName  string
	Token     string
	Repo      repoinfo.Resolver
	SkipEnv   bool
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	report := &HealthReport{Passed: true}
	for _, check := range []CheckResult{
		CheckGit(ctx, opts.Dir),
		CheckChangelog(opts.Dir, opts.Changelog),
		CheckRepository(opts),
		CheckToken(opts.Token),
		CheckWorkspaces(opts.Dir),
	} {
		report.Checks = append(report.Checks, check)
		if !check.Passed && !check.Optional {
			report.Passed = false
		}
	}
	return report
}

// CheckGit verifies dir is inside a git repository and reports the current tag.
func CheckGit(ctx context.Context, dir string) CheckResult {
	result := CheckResult{Name: "Git", Optional: true}
	tag, err := git.Describer{Dir: dir}.CurrentTag(ctx)
	switch {
	case err == nil:
		result.Passed = true
		result.Message = "HEAD is at or after " + tag
	case errors.Is(err, git.ErrNoTag):
		result.Message = "no tag reachable from HEAD; pass --tag explicitly"
	default:
		result.Message = fmt.Sprintf("not usable (%v); pass --tag and --from-tag explicitly", err)
	}
	return result
}

// CheckChangelog verifies the changelog exists.
func CheckChangelog(dir, explicit string) CheckResult {
	result := CheckResult{Name: "Changelog"}
	if explicit != "" {
		path := explicit
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			result.Message = path + " not found"
			return result
		}
		result.Passed = true
		result.Message = path
		return result
	}

	path, err := changelog.FindChangelog(dir)
	if err != nil {
		result.Message = fmt.Sprintf("none of %s found", strings.Join(changelog.CandidateNames, ", "))
		return result
	}
	result.Passed = true
	result.Message = path
	return result
}

// CheckRepository verifies owner and name can be resolved.
func CheckRepository(opts Options) CheckResult {
	result := CheckResult{Name: "Repository"}
	info, err := opts.Repo.Resolve(opts.RepoOwner, opts.RepoName, repoinfo.Options{Cwd: opts.Dir, SkipEnv: opts.SkipEnv})
	if err != nil {
		result.Message = err.Error() + "; pass --repo owner/name"
		return result
	}
	result.Passed = true
	result.Message = info.String()
	return result
}

// CheckToken verifies a GitHub token is configured. Dry runs work without one.
func CheckToken(token string) CheckResult {
	if token == "" {
		return CheckResult{Name: "GitHub token", Optional: true, Message: "not set; only --dry-run will work"}
	}
	return CheckResult{Name: "GitHub token", Passed: true, Message: "set"}
}

// CheckWorkspaces reports whether dir is a monorepo.
func CheckWorkspaces(dir string) CheckResult {
	result := CheckResult{Name: "Workspaces"}
	patterns, source, err := workspace.Discover(dir)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Passed = true
	if len(patterns) == 0 {
		result.Message = "single package"
		return result
	}

	packages, err := workspace.FindPackages(dir, patterns)
	if err != nil {
		result.Passed = false
		result.Message = err.Error()
		return result
	}
	result.Message = fmt.Sprintf("monorepo, %d packages from %s", len(packages), source)
	return result
}

// FormatReport formats a health report for console output
func FormatReport(report *HealthReport) string {
	var sb strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		switch {
		case check.Passed:
		case check.Optional:
			mark = "○"
		default:
			mark = "✗"
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return sb.String()
}
