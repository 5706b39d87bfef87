package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/gh-release-changelog/gh-release-changelog/internal/errors"
)

// Exit codes for the gh-release-changelog CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates the release or extraction failed at runtime
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments or tags
	ExitInvalidArguments = 2

	// ExitMissingPrerequisites indicates missing configuration, files or credentials
	ExitMissingPrerequisites = 3

	// ExitRemoteFailure indicates GitHub or the npm registry rejected a request
	ExitRemoteFailure = 4
)

// exitError carries an exit code for a failure that was already reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates an error that only sets the exit code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// ExitCode returns the exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}

	switch clierrors.Classify(err).Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration, clierrors.Prerequisite:
		return ExitMissingPrerequisites
	case clierrors.Remote:
		return ExitRemoteFailure
	default:
		return ExitFailure
	}
}
