// Package regionset caches loaded regions across repeated opens of the same
// file: importing the same compiled artifact twice should not re-run the
// fix-up sweep or duplicate the resurrected-MPZ bookkeeping.
package regionset

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/v2pro/plz/concurrent"
	"github.com/v2pro/plz/countlog"

	"github.com/oxheap/compactor/internal/refcount"
	"github.com/oxheap/compactor/region"
	"github.com/oxheap/compactor/regionio"
)

type entry struct {
	path    string
	region  *region.Region
	counted *refcount.Counted
}

// Cache is a bounded, reference-counted cache of *region.Region keyed by
// file path. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	lru      *lru.Cache
	byRegion map[*region.Region]*entry
	executor *concurrent.UnboundedExecutor
}

// NewCache creates a Cache holding up to size regions before its
// replacement policy starts recycling cache slots.
func NewCache(size int) (*Cache, error) {
	c := &Cache{
		byRegion: make(map[*region.Region]*entry),
		executor: concurrent.NewUnboundedExecutor(),
	}
	l, err := lru.NewWithEvict(size, c.onEvicted)
	if err != nil {
		return nil, err
	}
	c.lru = l
	return c, nil
}

// onEvicted runs while c.mu is held, since it is only ever reached through
// lru.Cache methods called under that lock. It drops the cache's own pin;
// openers that are still holding the region keep it alive until their own
// Release calls.
func (c *Cache) onEvicted(_ any, v any) {
	e := v.(*entry)
	countlog.Debug("event!regionset.evicted region", "path", e.path)
	c.closeEntry(e)
}

func (c *Cache) closeEntry(e *entry) {
	c.executor.Go(func(ctx context.Context) {
		if err := e.counted.Close(); err != nil {
			countlog.Error("event!regionset.failed to close region", "path", e.path, "err", err)
		}
		if e.counted.Closed() {
			c.mu.Lock()
			delete(c.byRegion, e.region)
			c.mu.Unlock()
		}
	})
}

// Open returns the region loaded from path, acquiring a reference on it,
// either an already-cached instance or a freshly loaded one. Every
// successful Open must be paired with exactly one Release.
func (c *Cache) Open(path string) (*region.Region, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.lru.Get(path); ok {
		e := v.(*entry)
		if e.counted.Acquire() {
			countlog.Trace("event!regionset.reused cached region", "path", path)
			return e.region, nil
		}
		c.lru.Remove(path)
	}
	r, err := regionio.OpenFile(path)
	if err != nil {
		return nil, err
	}
	e := &entry{path: path, region: r, counted: refcount.New("region:"+path, r)}
	e.counted.Acquire()
	c.byRegion[r] = e
	c.lru.Add(path, e)
	countlog.Debug("event!regionset.loaded region", "path", path)
	return r, nil
}

// Release drops one reference to r. The last release closes the region off
// the caller's goroutine, on the cache's background executor.
func (c *Cache) Release(r *region.Region) {
	c.mu.Lock()
	e, ok := c.byRegion[r]
	c.mu.Unlock()
	if !ok {
		return
	}
	c.closeEntry(e)
}

// Close stops the background executor, waiting for any in-flight Release
// to finish closing its region.
func (c *Cache) Close() error {
	c.executor.StopAndWait(context.Background())
	return nil
}
