// Package config provides layered configuration for gh-release-changelog using koanf.
// Configuration is loaded with priority: environment variables > project config
// (.gh-release-changelog.yml) > user config (~/.config/gh-release-changelog/config.yml)
// > defaults. Project configs may also be JSON. Inside a GitHub Action the same
// structure is read from the action inputs instead, see LoadAction.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gh-release-changelog/gh-release-changelog/internal/ghclient"
	"github.com/gh-release-changelog/gh-release-changelog/internal/ignore"
	"github.com/gh-release-changelog/gh-release-changelog/internal/repoinfo"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "GH_RELEASE_CHANGELOG_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
	SourceAction  ConfigSource = "action"
)

// Configuration is every option of an extraction or release run.
type Configuration struct {
	// Tag is the release tag. Empty means the most recent tag reachable from HEAD.
	Tag     string `koanf:"tag"`
	FromTag string `koanf:"from_tag"`
	// Changelog is an explicit changelog path, relative to the working
	// directory. Empty means discovery.
	Changelog string `koanf:"changelog"`
	Label     string `koanf:"label"`

	// Repo is the "owner/name" shorthand or a repository URL. It only fills RepoOwner and
	// RepoName when both are empty.
	Repo      string `koanf:"repo"`
	RepoOwner string `koanf:"repo_owner"`
	RepoName  string `koanf:"repo_name"`

	// GitHubToken falls back to GITHUB_TOKEN, then GITHUB_AUTH.
	GitHubToken string `koanf:"github_token"`
	// APIURL points at a GitHub Enterprise API root.
	APIURL string `koanf:"api_url" validate:"omitempty,url"`

	Draft                  bool   `koanf:"draft"`
	Prerelease             bool   `koanf:"prerelease"`
	GenerateReleaseNotes   bool   `koanf:"generate_release_notes"`
	DiscussionCategoryName string `koanf:"discussion_category_name"`
	TargetCommitish        string `koanf:"target_commitish"`
	DryRun                 bool   `koanf:"dry_run"`

	InitialDepth int         `koanf:"initial_depth" validate:"min=1,max=6"`
	IgnoreRules  []string    `koanf:"ignore_rules"`
	IgnoreMode   ignore.Mode `koanf:"ignore_mode" validate:"oneof=append replace"`

	CheckStandardVersion bool   `koanf:"check_standard_version"`
	CheckPkgAvailable    bool   `koanf:"check_pkg_available"`
	NPMRegistry          string `koanf:"npm_registry" validate:"required,url"`
	SkipEnvRepoInfer     bool   `koanf:"skip_env_repo_infer"`
	SkipFromTagGitInfer  bool   `koanf:"skip_from_tag_git_infer"`

	// Workspaces overrides workspace discovery.
	Workspaces     []string `koanf:"workspaces"`
	OnPackageError string   `koanf:"on_package_error" validate:"oneof=abort skip"`
	Concurrency    int      `koanf:"concurrency" validate:"min=1,max=64"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir is where the project config is looked up. Empty means the
	// current directory.
	ProjectDir string
	// ProjectConfigPath overrides the project config file.
	ProjectConfigPath string
	// SkipUserConfig ignores the user-level config file.
	SkipUserConfig bool
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// Getenv resolves token fallbacks. Defaults to os.Getenv.
	Getenv func(string) string
	// EnvFile is a dotenv file consulted after the process environment,
	// both for GH_RELEASE_CHANGELOG_* overrides and for tokens. A missing
	// file is ignored.
	EnvFile string
}

// Load loads configuration from user, project, and environment sources.
func Load(projectDir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectDir: projectDir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts, warningWriter); err != nil {
		return nil, err
	}

	dotenv, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	if err := loadDotenvConfig(k, dotenv); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k, withFallback(opts.Getenv, dotenv))
}

// readEnvFile parses a dotenv file without touching the process environment.
func readEnvFile(path string) (map[string]string, error) {
	if !fileExists(path) {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return vars, nil
}

// loadDotenvConfig applies GH_RELEASE_CHANGELOG_* entries of a dotenv file.
func loadDotenvConfig(k *koanf.Koanf, vars map[string]string) error {
	for name, value := range vars {
		if !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key, v := envTransform(name, value)
		if err := k.Set(key, v); err != nil {
			return fmt.Errorf("applying %s: %w", name, err)
		}
	}
	return nil
}

// withFallback consults getenv first, then the dotenv values.
func withFallback(getenv func(string) string, vars map[string]string) func(string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if len(vars) == 0 {
		return getenv
	}
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return vars[key]
	}
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/gh-release-changelog/config.yml when present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, SourceUser); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project config. YAML wins over JSON; having
// both is reported as a warning.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, warningWriter io.Writer) error {
	if opts.ProjectConfigPath != "" {
		if !fileExists(opts.ProjectConfigPath) {
			return fmt.Errorf("config file %s not found", opts.ProjectConfigPath)
		}
		return loadConfigFile(k, opts.ProjectConfigPath, SourceProject)
	}

	yamlPath := ProjectConfigPath(opts.ProjectDir)
	jsonPath := ProjectJSONConfigPath(opts.ProjectDir)
	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if jsonExists {
			fmt.Fprintf(warningWriter, "Warning: %s is ignored, using %s\n", jsonPath, yamlPath)
		}
		return loadYAMLConfig(k, yamlPath, SourceProject)
	case jsonExists:
		return loadJSONConfig(k, jsonPath, SourceProject)
	}
	return nil
}

func loadConfigFile(k *koanf.Koanf, path string, source ConfigSource) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadJSONConfig(k, path, source)
	}
	return loadYAMLConfig(k, path, source)
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string, source ConfigSource) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s config %s: %w", source, path, err)
	}
	if err := checkYAMLSyntax(data, path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", source, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
	}
	return nil
}

func loadJSONConfig(k *koanf.Koanf, path string, source ConfigSource) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load %s config: %w", SourceEnv, err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: GH_RELEASE_CHANGELOG_FROM_TAG -> from_tag. List keys are comma
// separated.
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if isListKey(key) {
		return key, splitList(value, ",")
	}
	return key, value
}

func isListKey(key string) bool {
	return key == "ignore_rules" || key == "workspaces"
}

// splitList splits on sep and drops blank items.
func splitList(value, sep string) []string {
	var items []string
	for _, item := range strings.Split(value, sep) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf, getenv func(string) string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Normalize(getenv); err != nil {
		return nil, err
	}

	if err := validateValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Normalize applies the repo shorthand and the token fallback. Callers that
// change fields after loading run it again before Validate.
func (c *Configuration) Normalize(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	if c.Repo != "" && c.RepoOwner == "" && c.RepoName == "" {
		owner, name := repoinfo.ParseRepositoryURL(c.Repo)
		if owner == "" || name == "" {
			return &ValidationError{Source: "config", Field: "repo", Message: fmt.Sprintf("%q is not in owner/name form", c.Repo)}
		}
		c.RepoOwner, c.RepoName = owner, name
	}

	if c.GitHubToken == "" {
		c.GitHubToken = ghclient.TokenFromEnv(getenv)
	}
	return nil
}

// Validate checks c against its constraints.
func (c *Configuration) Validate() error {
	return validateValues(c, "config")
}

// Rules compiles the ignore rules per IgnoreMode.
func (c *Configuration) Rules() (ignore.Rules, error) {
	return ignore.Compile(c.IgnoreRules, c.IgnoreMode)
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
