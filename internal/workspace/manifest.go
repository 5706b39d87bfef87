package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFile is the package manifest looked up in every package directory.
const ManifestFile = "package.json"

// ErrManifestNotFound is returned when a directory has no package manifest.
var ErrManifestNotFound = errors.New("package.json not found")

// Manifest holds the package.json fields this tool reads.
type Manifest struct {
	Name       string          `json:"name"`
	Version    string          `json:"version"`
	Private    bool            `json:"private"`
	Repository json.RawMessage `json:"repository"`
	Workspaces json.RawMessage `json:"workspaces"`
}

// ReadManifest loads dir/package.json.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrManifestNotFound, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}

// RepositoryURL returns the declared repository, accepting both the string
// form and the {"type": "git", "url": "..."} object form.
func (m *Manifest) RepositoryURL() string {
	if len(m.Repository) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(m.Repository, &s); err == nil {
		return s
	}

	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(m.Repository, &obj); err == nil {
		return obj.URL
	}
	return ""
}

// WorkspacePatterns returns the workspaces globs, accepting both the array
// form and the yarn {"packages": [...]} object form.
func (m *Manifest) WorkspacePatterns() []string {
	if len(m.Workspaces) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(m.Workspaces, &list); err == nil {
		return list
	}

	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(m.Workspaces, &obj); err == nil {
		return obj.Packages
	}
	return nil
}
