package client

import (
	"context"
	"sync"

	"github.com/sushihentaime/blogbook/internal/blogservice"
)

// Lister fetches the authoritative blog list.
type Lister interface {
	ListBlogs(ctx context.Context) ([]blogservice.Blog, error)
}

// Snapshot is a copy of the cache state.
type Snapshot struct {
	Blogs   []blogservice.Blog
	Loading bool
	Error   string
}

// Cache mirrors the server's blog list. The last completed operation wins.
type Cache struct {
	mu      sync.RWMutex
	blogs   []blogservice.Blog
	loading bool
	err     string
}

func NewCache() *Cache {
	return &Cache{}
}

// Refresh replaces the whole list with what src returns. On failure the
// previous list is kept and the error message is recorded.
func (c *Cache) Refresh(ctx context.Context, src Lister) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	blogs, err := src.ListBlogs(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.loading = false
	if err != nil {
		c.err = err.Error()
		return err
	}

	c.blogs = append([]blogservice.Blog(nil), blogs...)
	c.err = ""
	return nil
}

func (c *Cache) ApplyCreated(b blogservice.Blog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blogs = append(c.blogs, b)
}

// ApplyUpdated replaces the entry with b's id and reports whether one was found.
func (c *Cache) ApplyUpdated(b blogservice.Blog) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.blogs {
		if c.blogs[i].ID == b.ID {
			c.blogs[i] = b
			return true
		}
	}
	return false
}

func (c *Cache) ApplyDeleted(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.blogs[:0]
	for _, b := range c.blogs {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	c.blogs = kept
}

// Lookup returns the cached record with the given id.
func (c *Cache) Lookup(id int64) (*blogservice.Blog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, b := range c.blogs {
		if b.ID == id {
			return &b, true
		}
	}
	return nil, false
}

func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		Blogs:   append([]blogservice.Blog(nil), c.blogs...),
		Loading: c.loading,
		Error:   c.err,
	}
}
