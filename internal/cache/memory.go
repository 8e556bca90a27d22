package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with lazy expiration and, when
// maxEntries is positive, least-recently-used eviction.
type MemoryStore struct {
	maxEntries int
	now        func() time.Time

	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List // front is most recently used
}

type memoryItem struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a MemoryStore. maxEntries <= 0 disables eviction.
func NewMemoryStore(maxEntries int, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		maxEntries: maxEntries,
		now:        time.Now,
		items:      make(map[string]*list.Element),
		order:      list.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	item := elem.Value.(*memoryItem)
	if !s.now().Before(item.expiresAt) {
		s.removeElement(elem)
		return nil, false, nil
	}
	s.order.MoveToFront(elem)
	return cloneBytes(item.value), true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := &memoryItem{
		key:       key,
		value:     cloneBytes(value),
		expiresAt: s.now().Add(ttl),
	}
	if elem, ok := s.items[key]; ok {
		elem.Value = item
		s.order.MoveToFront(elem)
		return nil
	}

	s.items[key] = s.order.PushFront(item)
	for s.maxEntries > 0 && s.order.Len() > s.maxEntries {
		s.removeElement(s.order.Back())
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[key]; ok {
		s.removeElement(elem)
	}
	return nil
}

// Len reports the number of entries held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) removeElement(elem *list.Element) {
	item := elem.Value.(*memoryItem)
	delete(s.items, item.key)
	s.order.Remove(elem)
}

func cloneBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
