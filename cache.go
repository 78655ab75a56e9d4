package sitegen

import (
	"sync"
	"time"

	"github.com/ruofeng/sitegen/content"
)

// PostCache is an in-memory cache of the loaded posts with TTL. In serve
// mode it picks up edits to the content directory once the TTL expires.
type PostCache struct {
	mu      sync.RWMutex
	posts   []content.Post
	loaded  bool
	fetched time.Time
	ttl     time.Duration
	loader  content.Loader

	// OnReloadError, when set, is told about reloads that failed while
	// stale posts were still available.
	OnReloadError func(error)
}

// NewPostCache creates a PostCache over loader. A ttl <= 0 keeps the first
// load until Invalidate is called.
func NewPostCache(loader content.Loader, ttl time.Duration) *PostCache {
	return &PostCache{loader: loader, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.loaded && (c.ttl <= 0 || time.Since(c.fetched) < c.ttl)
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.loaded = false
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.loader.Load()
	if err != nil {
		return err
	}
	c.posts = posts
	c.loaded = true
	c.fetched = time.Now()
	return nil
}

// All returns every loaded post, drafts and scheduled posts included,
// newest first. It tries a read lock first; only takes a write lock if a
// reload is needed. A failed reload keeps serving the previous posts.
func (c *PostCache) All() ([]content.Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		if c.loaded {
			c.fetched = time.Now()
			if c.OnReloadError != nil {
				c.OnReloadError(err)
			}
			return c.posts, nil
		}
		return nil, err
	}
	return c.posts, nil
}
