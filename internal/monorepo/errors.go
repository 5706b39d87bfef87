package monorepo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gh-release-changelog/gh-release-changelog/internal/workspace"
)

// ErrNoWorkspaces is returned when no workspace patterns are configured or
// the patterns match no package.
var ErrNoWorkspaces = errors.New("workspaces is required")

// InvalidTagError is returned when the tag is not version shaped.
type InvalidTagError struct {
	Tag string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("tag %q is not a valid version", e.Tag)
}

// PackageNotFoundError is returned when a name-qualified tag names no
// workspace package.
type PackageNotFoundError struct {
	Name      string
	Available []string
}

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("package %q not found in workspaces (available: %s)",
		e.Name, strings.Join(e.Available, ", "))
}

// PackageError is the failure of one package's extraction.
type PackageError struct {
	Package workspace.Package
	Err     error
}

func (e *PackageError) Error() string {
	name := e.Package.Name
	if name == "" {
		name = e.Package.Location
	}
	return fmt.Sprintf("package %s: %v", name, e.Err)
}

func (e *PackageError) Unwrap() error {
	return e.Err
}
