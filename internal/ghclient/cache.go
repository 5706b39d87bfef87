package ghclient

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TagCache memoizes successful tag listings per repository so that the
// packages of a monorepo share one listing. Concurrent callers for the same
// repository wait on a single request. Failures are not cached.
type TagCache struct {
	list func(ctx context.Context, owner, repo string) ([]string, error)

	group singleflight.Group
	mu    sync.Mutex
	tags  map[string][]string
}

// NewTagCache wraps list, usually (*Client).ListTags.
func NewTagCache(list func(ctx context.Context, owner, repo string) ([]string, error)) *TagCache {
	return &TagCache{list: list, tags: make(map[string][]string)}
}

// ListTags returns the cached listing of owner/repo, fetching it on first use.
func (c *TagCache) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	key := owner + "/" + repo

	c.mu.Lock()
	tags, ok := c.tags[key]
	c.mu.Unlock()
	if ok {
		return tags, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		tags, err := c.list(ctx, owner, repo)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tags[key] = tags
		c.mu.Unlock()
		return tags, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}
