package manifest

import "sync"

// Cache owns the lazily built master manifest. It is constructed in the
// composition root and injected wherever manifest access is needed; there
// is no ambient singleton. The server handles one command at a time, but
// the guard costs nothing and keeps the type safe to share.
type Cache struct {
	mu     sync.Mutex
	build  func() (*Master, error)
	master *Master
}

// NewCache wraps a build function, typically a fresh discovery pass plus
// Build.
func NewCache(build func() (*Master, error)) *Cache {
	return &Cache{build: build}
}

// Get returns the cached master manifest, building it on first use.
// Repeated calls without Reload return the identical object.
func (c *Cache) Get() (*Master, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.master != nil {
		return c.master, nil
	}
	m, err := c.build()
	if err != nil {
		return nil, err
	}
	c.master = m
	return m, nil
}

// Reload forces a rebuild and swaps it in. The previous master manifest
// stays in place when the rebuild fails.
func (c *Cache) Reload() (*Master, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, err := c.build()
	if err != nil {
		return nil, err
	}
	c.master = m
	return m, nil
}

// Invalidate drops the cached master manifest so the next Get rebuilds.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.master = nil
}

// Cached returns the current master manifest without building, or nil.
func (c *Cache) Cached() *Master {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.master
}
