// Package git resolves release tags from the local repository with go-git,
// so the git CLI is not required. It answers the two questions a release
// needs when tags are not given explicitly: which tag is the most recent one
// reachable from HEAD, and which tag precedes a given tag.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// ErrNoTag is returned when no tag is reachable from the starting commit.
var ErrNoTag = errors.New("no tag reachable")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the repository containing path, walking up to find .git.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// Describer finds tags reachable from commits of the repository at Dir.
type Describer struct {
	// Dir is any directory inside the work tree. Empty means the current directory.
	Dir string
}

// CurrentTag returns the most recent tag reachable from HEAD, like
// `git describe --abbrev=0 --tags HEAD`.
func (d Describer) CurrentTag(ctx context.Context) (string, error) {
	repo, err := openRepo(d.Dir)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	return describe(ctx, repo, head.Hash())
}

// PreviousTag returns the most recent tag reachable from the first parent of
// the commit tag points at, like `git describe --abbrev=0 --tags tag^`.
func (d Describer) PreviousTag(ctx context.Context, tag string) (string, error) {
	repo, err := openRepo(d.Dir)
	if err != nil {
		return "", err
	}

	commit, err := taggedCommit(repo, tag)
	if err != nil {
		return "", err
	}
	if commit.NumParents() == 0 {
		logDebug("[git] PreviousTag: %s points at a root commit", tag)
		return "", ErrNoTag
	}
	return describe(ctx, repo, commit.ParentHashes[0])
}

// taggedCommit resolves a tag name to its commit, peeling annotated tags.
func taggedCommit(repo *git.Repository, tag string) (*object.Commit, error) {
	ref, err := repo.Tag(tag)
	if err != nil {
		return nil, fmt.Errorf("resolving tag %s: %w", tag, err)
	}
	hash, err := peel(repo, ref)
	if err != nil {
		return nil, err
	}
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit of tag %s: %w", tag, err)
	}
	return commit, nil
}

// peel returns the commit hash a tag reference points at.
func peel(repo *git.Repository, ref *plumbing.Reference) (plumbing.Hash, error) {
	obj, err := repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := obj.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("peeling tag %s: %w", ref.Name().Short(), err)
		}
		return commit.Hash, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return ref.Hash(), nil
	default:
		return plumbing.ZeroHash, fmt.Errorf("reading tag %s: %w", ref.Name().Short(), err)
	}
}

// tagsByCommit maps commit hashes to the tag names pointing at them. Names
// per commit are sorted in descending order.
func tagsByCommit(repo *git.Repository) (map[plumbing.Hash][]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	tagged := make(map[plumbing.Hash][]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		hash, err := peel(repo, ref)
		if err != nil {
			return err
		}
		tagged[hash] = append(tagged[hash], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, names := range tagged {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}
	return tagged, nil
}

// describe walks history from start breadth first and returns the first
// tag found, i.e. the one with the fewest commits in between.
func describe(ctx context.Context, repo *git.Repository, start plumbing.Hash) (string, error) {
	tagged, err := tagsByCommit(repo)
	if err != nil {
		return "", err
	}
	if len(tagged) == 0 {
		return "", ErrNoTag
	}

	iter, err := repo.Log(&git.LogOptions{From: start, Order: git.LogOrderBSF})
	if err != nil {
		return "", fmt.Errorf("walking history from %s: %w", start, err)
	}
	defer iter.Close()

	var found string
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if names, ok := tagged[c.Hash]; ok {
			found = names[0]
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", ErrNoTag
	}

	logDebug("[git] describe %s: %s", start, found)
	return found, nil
}
