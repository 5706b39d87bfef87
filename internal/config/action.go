package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// ActionInputPrefix is the prefix GitHub gives action inputs in the
// environment.
const ActionInputPrefix = "INPUT_"

// actionInputs maps action input names to config keys.
var actionInputs = map[string]string{
	"token":                  "github_token",
	"tag":                    "tag",
	"fromTag":                "from_tag",
	"changelog":              "changelog",
	"label":                  "label",
	"repoUrl":                "repo",
	"apiUrl":                 "api_url",
	"draft":                  "draft",
	"prerelease":             "prerelease",
	"generateReleaseNotes":   "generate_release_notes",
	"discussionCategoryName": "discussion_category_name",
	"targetCommitish":        "target_commitish",
	"dryRun":                 "dry_run",
	"checkStandardVersion":   "check_standard_version",
	"checkPkgAvailable":      "check_pkg_available",
	"initialDepth":           "initial_depth",
	"ignoreTests":            "ignore_rules",
	"ignoreMode":             "ignore_mode",
	"onPackageError":         "on_package_error",
}

// ActionInputEnv returns the environment variable GitHub sets for input.
func ActionInputEnv(input string) string {
	return ActionInputPrefix + strings.ToUpper(strings.ReplaceAll(input, " ", "_"))
}

// byInputEnv indexes actionInputs by environment variable.
var byInputEnv = func() map[string]string {
	m := make(map[string]string, len(actionInputs))
	for input, key := range actionInputs {
		m[ActionInputEnv(input)] = key
	}
	return m
}()

// LoadAction loads configuration for a GitHub Action run: defaults, then
// the project config, then the action inputs. Empty inputs are ignored.
// ignoreTests holds one pattern per line.
func LoadAction(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	loadDefaults(k)

	if err := loadProjectConfig(k, opts, getWarningWriter(opts.WarningWriter)); err != nil {
		return nil, err
	}

	if err := k.Load(env.ProviderWithValue(ActionInputPrefix, ".", actionTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load %s inputs: %w", SourceAction, err)
	}

	return finalizeConfig(k, opts.Getenv)
}

func actionTransform(name, value string) (string, any) {
	key, ok := byInputEnv[name]
	if !ok || strings.TrimSpace(value) == "" {
		return "", nil
	}
	if isListKey(key) {
		return key, splitList(value, "\n")
	}
	return key, strings.TrimSpace(value)
}
