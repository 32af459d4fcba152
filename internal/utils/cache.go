package utils

import (
	"os"
	"sync"
	"time"
)

// cacheItem is a cached value plus the file state it was read from
type cacheItem[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// FileCache caches values derived from files and drops an entry once its
// file changes on disk
type FileCache[V any] struct {
	items map[string]*cacheItem[V]
	mutex sync.RWMutex
}

// NewFileCache creates an empty cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{items: make(map[string]*cacheItem[V])}
}

// Get returns the value cached for path while the file is unchanged
func (c *FileCache[V]) Get(path string) (V, bool) {
	c.mutex.RLock()
	item, exists := c.items[path]
	c.mutex.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}

	if stat, err := os.Stat(path); err == nil {
		if stat.ModTime().Equal(item.modTime) && stat.Size() == item.size {
			return item.value, true
		}
	}

	// stale
	c.mutex.Lock()
	delete(c.items, path)
	c.mutex.Unlock()
	return zero, false
}

// Set stores value for path along with the file's current state
func (c *FileCache[V]) Set(path string, value V) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items[path] = &cacheItem[V]{
		value:   value,
		modTime: stat.ModTime(),
		size:    stat.Size(),
	}
	return nil
}

// Delete removes path from the cache
func (c *FileCache[V]) Delete(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, path)
}

// Size returns the number of cached entries
func (c *FileCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}
