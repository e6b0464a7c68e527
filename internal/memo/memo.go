// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package memo

import (
	"os"
	"sync"

	"github.com/apex/log"
)

// getwd is swapped out by tests that need to fail the lookup.
var getwd = os.Getwd

// Cache is an unbounded get-or-compute store. Entries are never evicted and
// never overwritten once stored.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V
}

// New returns an empty Cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]V)}
}

// GetOrCompute returns the value stored under key, calling compute to produce
// it on a miss. A failed compute stores nothing, so the next call for the same
// key runs compute again. compute runs without the lock held; when two misses
// race on one key the first stored value is the one both callers see from then
// on.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing, nil
	}
	c.entries[key] = v
	return v, nil
}

// Len reports the number of stored entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type cwdKey[K comparable] struct {
	Dir  string
	Args K
}

// Func is a function memoized on the working directory and its argument.
type Func[K comparable, V any] struct {
	fn    func(K) (V, error)
	cache *Cache[cwdKey[K], V]
}

// ByCwd memoizes fn on (working directory, args). Functions of several
// arguments should take a comparable struct. The working directory is read on
// every call, so a Chdir between calls lands in a different bucket.
func ByCwd[K comparable, V any](fn func(K) (V, error)) *Func[K, V] {
	return &Func[K, V]{
		fn:    fn,
		cache: New[cwdKey[K], V](),
	}
}

// Call returns the memoized result for args in the current working directory.
func (f *Func[K, V]) Call(args K) (V, error) {
	wd, err := getwd()
	if err != nil {
		var zero V
		return zero, err
	}

	key := cwdKey[K]{Dir: wd, Args: args}
	return f.cache.GetOrCompute(key, func() (V, error) {
		log.Debugf("memo miss: dir=%s args=%v", wd, args)
		return f.fn(args)
	})
}

// Len reports how many (directory, args) results are held.
func (f *Func[K, V]) Len() int {
	return f.cache.Len()
}
