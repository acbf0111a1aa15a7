// Package resource owns every named engine object. Each category is a
// Cache that hands out at most one instance per name.
package resource

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"brender/internal/logger"
)

// ErrNotFound is returned when a resource file or referenced entry is missing.
var ErrNotFound = errors.New("resource not found")

// releaser is implemented by reference-counted GPU objects.
type releaser interface {
	Release()
}

// Cache maps names to shared values. A value that implements Release is
// released when the cache drops it; other holders keep it alive.
type Cache[T any] struct {
	kind  string
	items map[string]T
}

func NewCache[T any](kind string) *Cache[T] {
	return &Cache[T]{kind: kind, items: make(map[string]T)}
}

// GetOrCreate returns the value stored under name, or stores and returns
// the result of create. Arguments captured by create are ignored when the
// name already exists. A failed create stores nothing, so the next call
// retries.
func (c *Cache[T]) GetOrCreate(name string, create func() (T, error)) (T, error) {
	if v, ok := c.items[name]; ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		logger.Log.Error("create "+c.kind+" failed", zap.String("name", name), zap.Error(err))
		var zero T
		return zero, err
	}
	c.items[name] = v
	logger.Log.Debug("created "+c.kind, zap.String("name", name))
	return v, nil
}

func (c *Cache[T]) Get(name string) (T, bool) {
	v, ok := c.items[name]
	return v, ok
}

// Add stores v under name unless the name is taken. The cache takes over
// the caller's reference.
func (c *Cache[T]) Add(name string, v T) bool {
	if _, ok := c.items[name]; ok {
		return false
	}
	c.items[name] = v
	return true
}

// Remove drops the cache's reference to name.
func (c *Cache[T]) Remove(name string) bool {
	v, ok := c.items[name]
	if !ok {
		return false
	}
	delete(c.items, name)
	release(v)
	return true
}

// Clear removes every entry.
func (c *Cache[T]) Clear() {
	for _, v := range c.items {
		release(v)
	}
	clear(c.items)
}

func (c *Cache[T]) Len() int { return len(c.items) }

// Names returns the cached names in sorted order.
func (c *Cache[T]) Names() []string {
	return slices.Sorted(maps.Keys(c.items))
}

func release(v any) {
	if r, ok := v.(releaser); ok {
		r.Release()
	}
}

// RawName derives a resource name from a file path: the last path element
// without its extension. "models/crate.obj" and "crate.png" both yield "crate".
func RawName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		path = path[:i]
	}
	return path
}
