package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := map[string]struct {
		args       []string
		wantStdout string
		wantStderr string
	}{
		"positional tag": {
			args:       []string{"v1.0.0", "--plain"},
			wantStdout: wantNote + "\n",
		},
		"tag flag": {
			args:       []string{"--tag", "v1.0.0"},
			wantStdout: wantNote + "\n",
		},
		"explicit from tag and label": {
			args:       []string{"v1.0.0", "--from-tag", "v0.1.0", "--label", "Notes"},
			wantStdout: "## Notes\n\n### Bug Fixes\n\n* fix x\n\n**Full Changelog**: https://github.com/o/r/compare/v0.1.0...v1.0.0\n",
		},
		"from tag without heading absorbs older versions": {
			args:       []string{"v1.0.0", "--from-tag", "v0.0.1", "--label", "Notes"},
			wantStdout: "# Notes\n\n### Bug Fixes\n\n* fix x\n\n## 0.1.0\n\n* init\n\n**Full Changelog**: https://github.com/o/r/compare/v0.0.1...v1.0.0\n",
		},
		"ignore replaces defaults": {
			args:       []string{"v1.0.0", "--ignore", "^Bug", "--ignore-mode", "replace"},
			wantStdout: "* fix x\n\n**Full Changelog**: https://github.com/o/r/compare/v0.1.0...v1.0.0\n",
		},
		"unknown version": {
			args:       []string{"v2.0.0"},
			wantStderr: "No release note found for v2.0.0",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			gh := newFakeGitHub(t, "v0.1.0")
			args := append([]string{"extract", "--cwd", singleRepo(t), "--repo", "o/r", "--api-url", gh.URL}, tt.args...)

			res := runCLI(t, args...)
			require.Equal(t, ExitSuccess, res.code, res.stderr)
			assert.Equal(t, tt.wantStdout, res.stdout)
			assert.Contains(t, res.stderr, tt.wantStderr)
			assert.Empty(t, gh.created())
		})
	}
}

func TestExtract_JSON(t *testing.T) {
	isolate(t)
	gh := newFakeGitHub(t)

	res := runCLI(t, "extract", "v1.0.0", "--json", "--cwd", monoRepo(t), "--repo", "o/r",
		"--api-url", gh.URL, "--skip-from-tag-git-infer")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var outcome struct {
		Mode     string `json:"mode"`
		Monorepo struct {
			ReleaseNotes []struct {
				Package string `json:"package"`
			} `json:"releaseNotes"`
			ReleaseNote string `json:"releaseNote"`
			Tag         string `json:"tag"`
		} `json:"monorepo"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &outcome))
	assert.Equal(t, "monorepo", outcome.Mode)
	assert.Equal(t, "v1.0.0", outcome.Monorepo.Tag)
	require.Len(t, outcome.Monorepo.ReleaseNotes, 2)
	assert.Equal(t, "a", outcome.Monorepo.ReleaseNotes[0].Package)
	assert.Equal(t, "b", outcome.Monorepo.ReleaseNotes[1].Package)
	assert.Contains(t, outcome.Monorepo.ReleaseNote, "* a change")
	assert.Empty(t, gh.created())
}

func TestExtract_IgnoresPublishConfig(t *testing.T) {
	isolate(t)
	gh := newFakeGitHub(t, "v0.1.0")
	t.Setenv("GH_RELEASE_CHANGELOG_DRY_RUN", "false")
	t.Setenv("GITHUB_TOKEN", "secret")

	res := runCLI(t, "extract", "v1.0.0", "--cwd", singleRepo(t), "--repo", "o/r", "--api-url", gh.URL)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, wantNote+"\n", res.stdout)
	assert.Empty(t, gh.created(), "extract never publishes")
}

func TestExtract_HasNoPublishFlags(t *testing.T) {
	cmd := newRootCmd()
	extract, _, err := cmd.Find([]string{"extract"})
	require.NoError(t, err)

	for _, name := range []string{"draft", "prerelease", "dry-run", "target-commitish"} {
		assert.Nil(t, extract.Flags().Lookup(name), name)
	}
	for _, name := range []string{"tag", "from-tag", "json", "plain", "workspaces"} {
		assert.NotNil(t, extract.Flags().Lookup(name), name)
	}
}
