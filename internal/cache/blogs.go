package cache

import (
	"context"
	"sync"
	"time"

	"github.com/isbguide/isbguide-go/internal/model"
)

// Cache key layout for blog content.
const (
	keyBlogList   = "blogs:list"
	keyBlogPrefix = "blogs:id:"
)

// BlogCache caches blog content fetched from the backend API. The full list
// and individual posts are cached separately because the list endpoint does
// not include comments.
type BlogCache struct {
	backend Cacher
	list    *TypedCache[[]model.Blog]
	single  *TypedCache[model.Blog]

	mu          sync.RWMutex
	refreshedAt time.Time
}

// NewBlogCache creates a blog cache on the given backend.
func NewBlogCache(backend Cacher, ttl time.Duration) *BlogCache {
	return &BlogCache{
		backend: backend,
		list:    NewTypedCache[[]model.Blog](backend, ttl),
		single:  NewTypedCache[model.Blog](backend, ttl),
	}
}

// List returns the cached blog list, fetching it on a miss.
func (c *BlogCache) List(ctx context.Context, fetch func() ([]model.Blog, error)) ([]model.Blog, error) {
	blogs, err := c.list.GetOrSet(ctx, keyBlogList, func() (*[]model.Blog, error) {
		fetched, err := fetch()
		if err != nil {
			return nil, err
		}
		c.markRefreshed()
		return &fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return *blogs, nil
}

// Get returns a single cached blog, fetching it on a miss.
func (c *BlogCache) Get(ctx context.Context, id string, fetch func() (*model.Blog, error)) (*model.Blog, error) {
	return c.single.GetOrSet(ctx, keyBlogPrefix+id, fetch)
}

// StoreList replaces the cached blog list. Used by the background refresh
// so readers never wait on the backend.
func (c *BlogCache) StoreList(ctx context.Context, blogs []model.Blog) error {
	if err := c.list.Set(ctx, keyBlogList, &blogs); err != nil {
		return err
	}
	c.markRefreshed()
	return nil
}

// InvalidateBlog drops one post and the list, which embeds its summary.
func (c *BlogCache) InvalidateBlog(ctx context.Context, id string) error {
	if err := c.single.Delete(ctx, keyBlogPrefix+id); err != nil {
		return err
	}
	return c.list.Delete(ctx, keyBlogList)
}

// Invalidate drops all cached blog content.
func (c *BlogCache) Invalidate(ctx context.Context) error {
	if err := c.backend.DeleteByPrefix(ctx, keyBlogPrefix); err != nil {
		return err
	}
	return c.backend.Delete(ctx, keyBlogList)
}

// RefreshedAt returns when the list was last populated, zero if never.
func (c *BlogCache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}

func (c *BlogCache) markRefreshed() {
	c.mu.Lock()
	c.refreshedAt = time.Now()
	c.mu.Unlock()
}
