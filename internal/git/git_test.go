// Package git_test tests tag description against throwaway repositories.
// Tags: git, tags, describe

package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	n    int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: repo}
}

func (r *testRepo) signature() *object.Signature {
	return &object.Signature{
		Name:  "Release Bot",
		Email: "bot@example.com",
		When:  time.Date(2024, 1, 1, 0, 0, r.n, 0, time.UTC),
	}
}

func (r *testRepo) commit() plumbing.Hash {
	r.t.Helper()
	r.n++
	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)

	name := filepath.Join(r.dir, "CHANGELOG.md")
	require.NoError(r.t, os.WriteFile(name, []byte(fmt.Sprintf("change %d\n", r.n)), 0o644))
	_, err = wt.Add("CHANGELOG.md")
	require.NoError(r.t, err)

	hash, err := wt.Commit("commit", &git.CommitOptions{Author: r.signature()})
	require.NoError(r.t, err)
	return hash
}

func (r *testRepo) tag(name string, hash plumbing.Hash, annotated bool) {
	r.t.Helper()
	var opts *git.CreateTagOptions
	if annotated {
		opts = &git.CreateTagOptions{Message: name, Tagger: r.signature()}
	}
	_, err := r.repo.CreateTag(name, hash, opts)
	require.NoError(r.t, err)
}

func TestDescriber(t *testing.T) {
	r := newTestRepo(t)
	c1 := r.commit()
	r.tag("v1.0.0", c1, false)
	r.commit()
	c3 := r.commit()
	r.tag("v1.1.0", c3, true)
	r.tag("pkg@1.1.0", c3, false)
	r.commit()

	d := Describer{Dir: r.dir}
	ctx := context.Background()

	current, err := d.CurrentTag(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1.1.0", current, "highest name wins on a commit with several tags")

	prev, err := d.PreviousTag(ctx, "v1.1.0")
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", prev)

	prev, err = d.PreviousTag(ctx, "pkg@1.1.0")
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", prev)

	_, err = d.PreviousTag(ctx, "v1.0.0")
	assert.ErrorIs(t, err, ErrNoTag)

	_, err = d.PreviousTag(ctx, "v9.9.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolving tag v9.9.9")
}

func TestDescriber_NoTags(t *testing.T) {
	r := newTestRepo(t)
	r.commit()

	_, err := Describer{Dir: r.dir}.CurrentTag(context.Background())
	assert.ErrorIs(t, err, ErrNoTag)
}

func TestDescriber_NotARepository(t *testing.T) {
	_, err := Describer{Dir: t.TempDir()}.CurrentTag(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening repository")
}

func TestDescriber_CanceledContext(t *testing.T) {
	r := newTestRepo(t)
	r.tag("v0.1.0", r.commit(), false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Describer{Dir: r.dir}.CurrentTag(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetDebugLogger(t *testing.T) {
	var lines []string
	SetDebugLogger(func(format string, args ...any) { lines = append(lines, format) })
	t.Cleanup(func() { SetDebugLogger(nil) })

	r := newTestRepo(t)
	r.tag("v0.1.0", r.commit(), false)
	_, err := Describer{Dir: r.dir}.CurrentTag(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, lines)
}
