package include

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/maypok86/otter"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultCacheCapacity bounds the number of distinct included files kept
	// per run when the caller does not size the cache.
	DefaultCacheCapacity = 1 << 16

	// minCacheCapacity keeps the store admitting entries: otter rejects
	// every entry of a store smaller than ten.
	minCacheCapacity = 16
)

// ReadFunc reads a file from storage.
type ReadFunc func(path string) ([]byte, error)

// Cache memoizes included file contents for the duration of one run.
//
// Concurrent first requests for the same path share a single read; later
// requests are served from memory. The store only evicts once it holds more
// distinct paths than its capacity, so a path is read at most once as long as
// the capacity covers every distinct include of the run (see CapacityFor).
// A Cache must not be shared across runs.
type Cache struct {
	store otter.Cache[string, string]
	group singleflight.Group
	read  ReadFunc
	reads atomic.Int64
}

// NewCache creates a run-scoped cache. A nil read uses os.ReadFile and a
// non-positive capacity uses DefaultCacheCapacity.
func NewCache(capacity int, read ReadFunc) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	capacity = max(capacity, minCacheCapacity)
	if read == nil {
		read = os.ReadFile
	}

	store, err := otter.MustBuilder[string, string](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create include cache: %w", err)
	}

	return &Cache{store: store, read: read}, nil
}

// Load returns the contents of path, reading it at most once.
func (c *Cache) Load(path string) (string, error) {
	if v, ok := c.store.Get(path); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		// A flight for path may have completed between Get and Do.
		if v, ok := c.store.Get(path); ok {
			return v, nil
		}

		c.reads.Add(1)
		data, err := c.read(path)
		if err != nil {
			return "", err
		}

		content := string(data)
		c.store.Set(path, content)
		return content, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// Reads returns how many times storage was hit.
func (c *Cache) Reads() int64 {
	return c.reads.Load()
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	return c.store.Size()
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.store.Close()
}

// CapacityFor returns a capacity that holds every distinct include of a run
// with the given number of @include lines, and at least floor.
func CapacityFor(includeLines, floor int) int {
	return max(includeLines, floor, minCacheCapacity)
}
