package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore 进程内 LRU 缓存，每个条目带过期时间
type MemoryStore struct {
	lru *lru.Cache[string, memoryItem]
	now func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, letting tests move time forward.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore keeps at most size entries, evicting the least recently used.
func NewMemoryStore(size int, opts ...MemoryOption) (*MemoryStore, error) {
	l, err := lru.New[string, memoryItem](size)
	if err != nil {
		return nil, errors.Wrap(err, "create lru cache")
	}
	s := &MemoryStore{lru: l, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(item.expiresAt) {
		s.lru.Remove(key)
		return nil, false, nil
	}
	return item.data, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	data := make([]byte, len(val))
	copy(data, val)
	s.lru.Add(key, memoryItem{data: data, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.lru.Remove(key)
	return nil
}

// Len reports the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}
