package config

import (
	"github.com/gh-release-changelog/gh-release-changelog/internal/changelog"
	"github.com/gh-release-changelog/gh-release-changelog/internal/ignore"
	"github.com/gh-release-changelog/gh-release-changelog/internal/monorepo"
	"github.com/gh-release-changelog/gh-release-changelog/internal/npm"
)

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# gh-release-changelog configuration
# Environment variables override this file: GH_RELEASE_CHANGELOG_<KEY>, e.g. GH_RELEASE_CHANGELOG_DRY_RUN=true

# Release target
tag: ""                               # Release tag (empty = latest tag reachable from HEAD)
from_tag: ""                          # Lower bound of the compare link (empty = inferred)
changelog: ""                         # Changelog path (empty = CHANGELOG.md, RELEASE.md, ... discovery)
label: ""                             # Heading placed above the note

# Repository (empty = GITHUB_REPOSITORY, then package.json repository)
repo: ""                              # owner/name shorthand
repo_owner: ""
repo_name: ""
api_url: ""                           # GitHub Enterprise API root, e.g. https://ghe.example.com/api/v3/

# Release flags
draft: false
prerelease: false
generate_release_notes: false
discussion_category_name: ""
target_commitish: ""
dry_run: false                        # Print the note instead of publishing

# Extraction
initial_depth: 4                      # Heading depth of the label when the note has no subheadings (1-6)
ignore_rules: []                      # Extra regular expressions; matching lines are dropped
ignore_mode: append                   # append | replace (replace drops the default rules)
check_standard_version: true          # Refuse tags that are not MAJOR.MINOR.PATCH
check_pkg_available: false            # Require name@version to be published on npm
npm_registry: https://registry.npmjs.org
skip_env_repo_infer: false            # Ignore GITHUB_REPOSITORY
skip_from_tag_git_infer: false        # Do not ask git for the previous tag

# Monorepo
workspaces: []                        # Package globs (empty = pnpm-workspace.yaml, package.json, lerna.json)
on_package_error: abort               # abort | skip
concurrency: 8                        # Parallel package extractions (1-64)
`
}

// GetDefaults returns the default configuration values as a map for koanf.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"tag":                      "",
		"from_tag":                 "",
		"changelog":                "",
		"label":                    "",
		"repo":                     "",
		"repo_owner":               "",
		"repo_name":                "",
		"github_token":             "",
		"api_url":                  "",
		"draft":                    false,
		"prerelease":               false,
		"generate_release_notes":   false,
		"discussion_category_name": "",
		"target_commitish":         "",
		"dry_run":                  false,
		"initial_depth":            changelog.DefaultInitialDepth,
		"ignore_rules":             []string{},
		"ignore_mode":              string(ignore.Append),
		"check_standard_version":   true,
		"check_pkg_available":      false,
		"npm_registry":             npm.DefaultRegistry,
		"skip_env_repo_infer":      false,
		"skip_from_tag_git_infer":  false,
		"workspaces":               []string{},
		"on_package_error":         string(monorepo.PolicyAbort),
		"concurrency":              monorepo.DefaultConcurrency,
	}
}
