// Package cache provides process-lifetime caches keyed by an identifier plus a
// fingerprint of the files the cached value was derived from.
package cache

import (
	"crypto/sha1" //nolint:gosec // SHA1 is used for non-cryptographic fingerprinting only
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Fingerprint computes a deterministic fingerprint over the state of paths.
// Each path contributes its name, whether it exists, its size and its
// modification time, so creating, deleting or editing any of them yields a
// new fingerprint. Paths are hashed in the order given.
//
// Format: "fp-sha1-<16hex>".
func Fingerprint(paths ...string) string {
	h := sha1.New() //nolint:gosec // not used for security, only for change fingerprinting
	for _, p := range paths {
		h.Write([]byte(p))
		h.Write([]byte{0})
		info, err := os.Stat(p)
		if err != nil {
			h.Write([]byte("absent"))
		} else {
			h.Write([]byte(strconv.FormatInt(info.Size(), 10)))
			h.Write([]byte{':'})
			h.Write([]byte(strconv.FormatInt(info.ModTime().UnixNano(), 10)))
		}
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return fmt.Sprintf("fp-sha1-%016x", sum[:8])
}

type entry[V any] struct {
	fingerprint string
	value       V
}

// Cache maps identifiers to values derived from files. A lookup only hits
// when the stored fingerprint equals the caller's; a Put with a different
// fingerprint replaces the entry. Cache is safe for concurrent use.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
}

// New creates an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]entry[V])}
}

// Get returns the value stored for id if it was stored with fingerprint.
func (c *Cache[V]) Get(id, fingerprint string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok || e.fingerprint != fingerprint {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value for id under fingerprint.
func (c *Cache[V]) Put(id, fingerprint string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = entry[V]{fingerprint: fingerprint, value: value}
}

// GetOrCreate returns the cached value for (id, fingerprint) or calls create
// and stores its result. create runs outside the lock; when two callers race,
// the first stored value wins and both receive it.
func (c *Cache[V]) GetOrCreate(id, fingerprint string, create func() (V, error)) (V, error) {
	if v, ok := c.Get(id, fingerprint); ok {
		return v, nil
	}

	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok && e.fingerprint == fingerprint {
		return e.value, nil
	}
	c.entries[id] = entry[V]{fingerprint: fingerprint, value: v}
	return v, nil
}

// Len returns the number of cached identifiers.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
