package rp

import (
	"os"
	"sync"
	"time"
)

// CacheEntry holds one IdP-info cache slot, either in memory or backed
// by a temporary file: ported from spresso/model/cache.py's CacheEntry,
// with the file handle owned exclusively by the entry and unlinked on
// replacement.
type CacheEntry struct {
	timestamp time.Time
	lifetime  time.Duration
	inMemory  bool

	data     string
	dataFile string
}

// NewCacheEntry constructs a CacheEntry stamped with the current time.
func NewCacheEntry(lifetime time.Duration, inMemory bool) *CacheEntry {
	return &CacheEntry{timestamp: time.Now(), lifetime: lifetime, inMemory: inMemory}
}

// Valid reports whether the entry has not yet expired.
func (e *CacheEntry) Valid() bool {
	return time.Since(e.timestamp) < e.lifetime
}

// SetData stores data either in memory or in a fresh temporary file,
// unlinking any previously owned file only after the new one is safely
// in place.
func (e *CacheEntry) SetData(data string) error {
	if e.inMemory {
		e.data = data
		return nil
	}
	f, err := os.CreateTemp("", "spresso-idp-info-*")
	if err != nil {
		return err
	}
	if _, err := f.WriteString(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}

	old := e.dataFile
	e.dataFile = f.Name()
	if old != "" {
		os.Remove(old)
	}
	return nil
}

// GetData returns the entry's data and true, or ("", false) if the
// entry has expired or has no data file.
func (e *CacheEntry) GetData() (string, bool) {
	if !e.Valid() {
		return "", false
	}
	if e.inMemory {
		return e.data, true
	}
	if e.dataFile == "" {
		return "", false
	}
	raw, err := os.ReadFile(e.dataFile)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

// Cache is the netloc-keyed IdP well-known info cache, guarded by a
// single RWMutex: a coarse-grained lock over the whole map, since
// per-key lock management buys nothing at this cache's size.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*CacheEntry
}

// NewCache builds an empty Cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]*CacheEntry)}
}

// Set stores data under handle if lifetime > 0, replacing any previous
// entry (and unlinking its temp file, if any).
func (c *Cache) Set(handle string, lifetime time.Duration, inMemory bool, data string) error {
	if lifetime <= 0 {
		return nil
	}
	entry := NewCacheEntry(lifetime, inMemory)
	if err := entry.SetData(data); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string]*CacheEntry)
	}
	if old, ok := c.items[handle]; ok && !old.inMemory && old.dataFile != "" {
		os.Remove(old.dataFile)
	}
	c.items[handle] = entry
	return nil
}

// Get returns the cached data for handle, or ("", false) on miss or
// expiry.
func (c *Cache) Get(handle string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.items[handle]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	return entry.GetData()
}
