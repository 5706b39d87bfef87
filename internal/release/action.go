package release

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/gh-release-changelog/gh-release-changelog/internal/semtag"
)

// OutputReleaseNote is the step output holding the release note.
const OutputReleaseNote = "release_note"

// Skip returns why a CI run should stop without failing, or "" to go on.
// Tags that are not version shaped are skipped, as are non-standard
// versions while checkStandard is on.
func Skip(tag, fromTag string, checkStandard bool) string {
	if !semtag.IsVersionText(tag) {
		return fmt.Sprintf("tag %q is ignored.", tag)
	}
	if fromTag != "" && !semtag.IsVersionText(fromTag) {
		return fmt.Sprintf("fromTag %q is ignored.", fromTag)
	}
	if checkStandard && !semtag.IsStandardVersion(tag) {
		return fmt.Sprintf("%s is not a standard version, so skip it. "+
			"Pass checkStandardVersion=false to release it anyway", tag)
	}
	return ""
}

// WriteOutput appends name=value to the step output file at path using the
// multiline delimiter syntax. An empty path is a no-op.
func WriteOutput(path, name, value string) error {
	if path == "" {
		return nil
	}

	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("output %s contains the delimiter %s", name, delimiter)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing output %s: %w", name, err)
	}
	return nil
}
