package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureChangelog = "# Changelog\n\n## 1.0.0\n\n### Bug Fixes\n\n* fix x\n\n## 0.1.0\n\n* init\n"

// isolate keeps user config and CI variables of the host out of a test.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, key := range []string{"GITHUB_ACTIONS", "GITHUB_REPOSITORY", "GITHUB_TOKEN", "GITHUB_AUTH", "GITHUB_OUTPUT"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// singleRepo creates a package with a changelog for 1.0.0 and 0.1.0.
func singleRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"name": "solo", "version": "1.0.0", "repository": "github:o/r"}`)
	writeFile(t, filepath.Join(dir, "CHANGELOG.md"), fixtureChangelog)
	return dir
}

func monoRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"name": "root", "private": true, "workspaces": ["packages/*"]}`)
	writeFile(t, filepath.Join(dir, "packages", "a", "package.json"), `{"name": "a"}`)
	writeFile(t, filepath.Join(dir, "packages", "a", "CHANGELOG.md"), "## 1.0.0\n\n* a change\n")
	writeFile(t, filepath.Join(dir, "packages", "b", "package.json"), `{"name": "b"}`)
	writeFile(t, filepath.Join(dir, "packages", "b", "CHANGELOG.md"), "## 1.0.0\n\n* b change\n")
	return dir
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// fakeGitHub serves the tag listing and release creation endpoints of o/r.
type fakeGitHub struct {
	URL string

	mu       sync.Mutex
	releases []map[string]any
	auth     []string
}

func newFakeGitHub(t *testing.T, tags ...string) *fakeGitHub {
	t.Helper()
	gh := &fakeGitHub{}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/git/matching-refs/tags", func(w http.ResponseWriter, _ *http.Request) {
		refs := make([]map[string]string, 0, len(tags))
		for _, tag := range tags {
			refs = append(refs, map[string]string{"ref": "refs/tags/" + tag})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(refs)
	})
	mux.HandleFunc("/repos/o/r/releases", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		gh.mu.Lock()
		gh.releases = append(gh.releases, body)
		gh.auth = append(gh.auth, r.Header.Get("Authorization"))
		id := len(gh.releases)
		gh.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"id": %d, "tag_name": %q, "html_url": "https://github.com/o/r/releases/tag/%s"}`,
			id, body["tag_name"], body["tag_name"])
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	gh.URL = server.URL
	return gh
}

func (gh *fakeGitHub) created() []map[string]any {
	gh.mu.Lock()
	defer gh.mu.Unlock()
	return append([]map[string]any(nil), gh.releases...)
}
