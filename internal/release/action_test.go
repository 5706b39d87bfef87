package release

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkip(t *testing.T) {
	tests := map[string]struct {
		tag           string
		fromTag       string
		checkStandard bool
		want          string
	}{
		"standard":                 {tag: "v1.0.0", checkStandard: true},
		"scoped":                   {tag: "@scope/pkg@1.2.3", checkStandard: true},
		"prerelease unchecked":     {tag: "v1.0.0-beta.1"},
		"prerelease checked":       {tag: "v1.0.0-beta.1", checkStandard: true, want: "v1.0.0-beta.1 is not a standard version"},
		"not a version":            {tag: "latest", want: `tag "latest" is ignored.`},
		"fromTag not a version":    {tag: "v1.0.0", fromTag: "main", want: `fromTag "main" is ignored.`},
		"fromTag is a version":     {tag: "v1.0.0", fromTag: "v0.9.0", checkStandard: true},
		"tag checked before from":  {tag: "nightly", fromTag: "main", want: `tag "nightly" is ignored.`},
		"from checked before gate": {tag: "v1.0.0-rc.1", fromTag: "main", checkStandard: true, want: `fromTag "main" is ignored.`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Skip(tt.tag, tt.fromTag, tt.checkStandard)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, []byte("previous=1\n"), 0o644))

	require.NoError(t, WriteOutput(path, OutputReleaseNote, "line one\nline two"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	re := regexp.MustCompile(`^previous=1\nrelease_note<<(ghadelimiter_[0-9a-f-]+)\nline one\nline two\n(ghadelimiter_[0-9a-f-]+)\n$`)
	m := re.FindStringSubmatch(string(data))
	require.NotNil(t, m, "unexpected output file:\n%s", data)
	assert.Equal(t, m[1], m[2])
}

func TestWriteOutput_NoPath(t *testing.T) {
	assert.NoError(t, WriteOutput("", OutputReleaseNote, "x"))
}
