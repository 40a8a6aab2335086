// Package mediacache provides a bounded in-memory cache for fetched place
// images, keyed by resolved photo URL. Eviction is least-recently-used.
package mediacache

import (
	"container/list"
	"sync"

	"github.com/ternarybob/loci/internal/models"
)

// DefaultCapacity is the default maximum number of cached images.
const DefaultCapacity = 100

type entry struct {
	key string
	img *models.Image
}

// Cache is a capacity-bounded LRU cache. Safe for concurrent use by
// multiple simultaneous image-fetch operations.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	entries  map[string]*list.Element
}

// New creates a cache. Non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached image for the URL and marks it recently used.
func (c *Cache) Get(url string) (*models.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[url]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*entry).img, true
}

// Put stores the image under the URL, evicting the least recently used
// entry when the cache is full. Storing an existing key replaces its value
// and marks it recently used.
func (c *Cache) Put(url string, img *models.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[url]; ok {
		elem.Value.(*entry).img = img
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry).key)
		}
	}

	c.entries[url] = c.order.PushFront(&entry{key: url, img: img})
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity returns the configured capacity.
func (c *Cache) Capacity() int {
	return c.capacity
}
