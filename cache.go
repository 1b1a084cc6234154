// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import "sync"

// Key identifies a value of type T in a Cache. The type parameter is the
// "tag type whose value_type is the associated value type" spec.md §6
// describes; here the tag and its value type are unified into one generic
// key rather than a separate tag/value-type pair, since Go's generics
// already bind them together at the call site.
type Key[T any] struct {
	name string
}

// NewKey returns a Cache key for values of type T, distinguished by name
// (so two NewKey[T] calls with different names address different slots even
// when T is the same).
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Cache is a per-connection polymorphic key→value map guarded by a
// dedicated mutex (spec.md §5/§6), used by upper layers for things like
// parsed keep-alive policy. Grounded in the teacher's options.go functional
// pattern of a small struct with accessor functions; generalized here to a
// generic Get/Set pair instead of one field per cached value, since the set
// of things upper layers want to cache is open-ended.
type Cache struct {
	mu    sync.Mutex
	slots map[any]any
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{slots: make(map[any]any)}
}

// Get returns the value stored under key and whether it was present.
func Get[T any](c *Cache, key Key[T]) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.slots[key]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Set stores value under key, replacing any previous value.
func Set[T any](c *Cache, key Key[T], value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[key] = value
}
