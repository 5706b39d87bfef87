package changelog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrChangelogNotFound is returned when no changelog was given and none of
// CandidateNames exists.
var ErrChangelogNotFound = errors.New("changelog file not found")

// CandidateNames are the file names probed during discovery, compared
// case-insensitively, in priority order.
var CandidateNames = []string{"changelog.md", "release.md", "release-note.md", "release-notes.md"}

// FindChangelog returns the absolute path of the changelog in dir. Only dir
// itself is searched; subdirectories are not.
func FindChangelog(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading directory %s: %w", dir, err)
	}

	for _, candidate := range CandidateNames {
		for _, e := range entries {
			if !e.Type().IsRegular() || !strings.EqualFold(e.Name(), candidate) {
				continue
			}
			abs, err := filepath.Abs(filepath.Join(dir, e.Name()))
			if err != nil {
				return "", fmt.Errorf("resolving %s: %w", e.Name(), err)
			}
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrChangelogNotFound, dir, strings.Join(CandidateNames, ", "))
}

// resolvePath makes name absolute relative to dir.
func resolvePath(dir, name string) (string, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	return filepath.Abs(name)
}
