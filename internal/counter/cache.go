package counter

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes per-bag containment totals.
type Cache interface {
	Get(bag string) (int, bool)
	Add(bag string, total int)
	Len() int
}

// memo is the default unbounded cache.
type memo map[string]int

// NewMemoCache returns an unbounded map-backed cache.
func NewMemoCache() Cache {
	return memo{}
}

func (m memo) Get(bag string) (int, bool) {
	v, ok := m[bag]
	return v, ok
}

func (m memo) Add(bag string, total int) {
	m[bag] = total
}

func (m memo) Len() int {
	return len(m)
}

type lruCache struct {
	c *lru.Cache[string, int]
}

// NewLRUCache returns a cache bounded to size entries. Evicted entries are
// recomputed on demand, so the size only affects work done.
func NewLRUCache(size int) (Cache, error) {
	c, err := lru.New[string, int](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &lruCache{c: c}, nil
}

func (l *lruCache) Get(bag string) (int, bool) {
	return l.c.Get(bag)
}

func (l *lruCache) Add(bag string, total int) {
	l.c.Add(bag, total)
}

func (l *lruCache) Len() int {
	return l.c.Len()
}

// NewCache picks the cache for a configured size: 0 means unbounded.
func NewCache(size int) (Cache, error) {
	if size <= 0 {
		return NewMemoCache(), nil
	}
	return NewLRUCache(size)
}
