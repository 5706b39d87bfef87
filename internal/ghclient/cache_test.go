package ghclient

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gh-release-changelog/gh-release-changelog/internal/changelog"
)

var (
	_ changelog.TagLister = (*Client)(nil)
	_ changelog.TagLister = (*TagCache)(nil)
)

type countingLister struct {
	calls atomic.Int32
	err   error
}

func (l *countingLister) ListTags(_ context.Context, owner, repo string) ([]string, error) {
	l.calls.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	return []string{owner + "/" + repo + "@1.0.0"}, nil
}

func TestTagCache(t *testing.T) {
	lister := &countingLister{}
	cache := NewTagCache(lister.ListTags)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tags, err := cache.ListTags(ctx, "o", "r")
			assert.NoError(t, err)
			assert.Equal(t, []string{"o/r@1.0.0"}, tags)
		}()
	}
	wg.Wait()

	tags, err := cache.ListTags(ctx, "o", "other")
	require.NoError(t, err)
	assert.Equal(t, []string{"o/other@1.0.0"}, tags)

	before := lister.calls.Load()
	_, _ = cache.ListTags(ctx, "o", "r")
	_, _ = cache.ListTags(ctx, "o", "other")
	assert.Equal(t, before, lister.calls.Load(), "cached repositories are not listed again")
}

func TestTagCache_ErrorsAreNotCached(t *testing.T) {
	boom := errors.New("boom")
	lister := &countingLister{err: boom}
	cache := NewTagCache(lister.ListTags)

	_, err := cache.ListTags(context.Background(), "o", "r")
	assert.ErrorIs(t, err, boom)

	lister.err = nil
	tags, err := cache.ListTags(context.Background(), "o", "r")
	require.NoError(t, err)
	assert.Equal(t, []string{"o/r@1.0.0"}, tags)
	assert.Equal(t, int32(2), lister.calls.Load())
}
