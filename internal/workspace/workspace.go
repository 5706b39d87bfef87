// Package workspace discovers the packages of a JavaScript monorepo.
//
// Workspace globs are read from the first of pnpm-workspace.yaml, the
// package.json "workspaces" field, or lerna.json that declares them. The
// globs are then expanded into package directories that contain a
// package.json.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Source names the file a workspace configuration was read from.
type Source string

const (
	SourceNone  Source = ""
	SourcePnpm  Source = "pnpm-workspace.yaml"
	SourcePkg   Source = "package.json"
	SourceLerna Source = "lerna.json"
)

const nodeModules = "node_modules"

// Package is one discovered workspace package.
type Package struct {
	Name     string `json:"name,omitempty"`
	Location string `json:"location"`
}

// Discover returns the workspace globs declared in cwd. It returns no
// patterns and SourceNone for a single-package repository.
func Discover(cwd string) ([]string, Source, error) {
	pnpmPath := filepath.Join(cwd, string(SourcePnpm))
	if isFile(pnpmPath) {
		patterns, err := readPnpmWorkspace(pnpmPath)
		return patterns, SourcePnpm, err
	}

	if isFile(filepath.Join(cwd, ManifestFile)) {
		m, err := ReadManifest(cwd)
		if err != nil {
			return nil, SourceNone, err
		}
		if patterns := m.WorkspacePatterns(); patterns != nil {
			return patterns, SourcePkg, nil
		}
	}

	lernaPath := filepath.Join(cwd, string(SourceLerna))
	if isFile(lernaPath) {
		patterns, err := readLerna(lernaPath)
		return patterns, SourceLerna, err
	}

	return nil, SourceNone, nil
}

func readPnpmWorkspace(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var ws struct {
		Packages []string `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ws.Packages, nil
}

func readLerna(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var lerna struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(data, &lerna); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return lerna.Packages, nil
}

// FindPackages expands patterns relative to cwd into packages. Patterns
// prefixed with "!" exclude directories. Results keep pattern order, are
// sorted within a pattern, and never include node_modules.
func FindPackages(cwd string, patterns []string) ([]Package, error) {
	fsys := os.DirFS(cwd)

	var includes, excludes []string
	for _, p := range patterns {
		p = cleanPattern(p)
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "!") {
			excludes = append(excludes, cleanPattern(p[1:]))
			continue
		}
		includes = append(includes, p)
	}

	seen := make(map[string]bool)
	var packages []Package
	for _, pattern := range includes {
		matches, err := doublestar.Glob(fsys, path.Join(pattern, ManifestFile))
		if err != nil {
			return nil, fmt.Errorf("expanding workspace pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)

		for _, match := range matches {
			dir := path.Dir(match)
			if seen[dir] || inNodeModules(dir) || excluded(dir, excludes) {
				continue
			}
			seen[dir] = true

			location := filepath.Join(cwd, filepath.FromSlash(dir))
			m, err := ReadManifest(location)
			if err != nil {
				return nil, err
			}
			packages = append(packages, Package{Name: m.Name, Location: location})
		}
	}
	return packages, nil
}

func cleanPattern(p string) string {
	p = strings.TrimSpace(p)
	neg := strings.HasPrefix(p, "!")
	p = strings.TrimPrefix(p, "!")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, "/")
	if neg {
		return "!" + p
	}
	return p
}

func excluded(dir string, excludes []string) bool {
	for _, ex := range excludes {
		if ok, _ := doublestar.Match(ex, dir); ok {
			return true
		}
	}
	return false
}

func inNodeModules(dir string) bool {
	for _, part := range strings.Split(dir, "/") {
		if part == nodeModules {
			return true
		}
	}
	return false
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
