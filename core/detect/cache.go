package detect

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/leakguard/leakguard/core/findings"
)

// cacheKey derives the (absolute_path, content_hash) cache key used by the
// composite detector's result cache.
func cacheKey(absPath string, content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%s\x00%x", absPath, sum)
}

// fifoCache is a bounded cache with simple first-in-first-out eviction,
// guarded by a mutex so it may be shared across worker goroutines.
type fifoCache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	data     map[string][]findings.Finding
}

func newFIFOCache(capacity int) *fifoCache {
	return &fifoCache{
		capacity: capacity,
		data:     make(map[string][]findings.Finding, capacity),
	}
}

func (c *fifoCache) get(key string) ([]findings.Finding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *fifoCache) put(key string, value []findings.Finding) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; exists {
		c.data[key] = value
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.data, oldest)
	}
	c.order = append(c.order, key)
	c.data[key] = value
}
