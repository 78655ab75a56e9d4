package imagecache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries bounds the in-process cache.
const DefaultMemoryEntries = 256

// Memory is an in-process LRU cache.
type Memory struct {
	lru *lru.Cache[string, []byte]
}

// NewMemory returns an LRU cache holding at most size images.
func NewMemory(size int) (*Memory, error) {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("imagecache: memory: %w", err)
	}
	return &Memory{lru: c}, nil
}

// Get implements Backend.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	return v, ok, nil
}

// Put implements Backend.
func (m *Memory) Put(_ context.Context, key string, png []byte) error {
	m.lru.Add(key, png)
	return nil
}

// Len returns the number of cached images.
func (m *Memory) Len() int { return m.lru.Len() }

// Close implements Backend.
func (m *Memory) Close() error {
	m.lru.Purge()
	return nil
}
