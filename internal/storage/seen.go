package storage

import (
	"context"
	"sync"
)

// SeenSet is the set of article URLs that were already published.
// Iteration order is insertion order.
type SeenSet struct {
	order []string
	index map[string]struct{}
}

// NewSeenSet builds a set from urls, dropping duplicates.
func NewSeenSet(urls ...string) *SeenSet {
	s := &SeenSet{index: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		s.Add(u)
	}
	return s
}

// Add inserts url and reports whether it was new.
func (s *SeenSet) Add(url string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[url]; ok {
		return false
	}
	s.index[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

func (s *SeenSet) Contains(url string) bool {
	_, ok := s.index[url]
	return ok
}

func (s *SeenSet) Len() int {
	return len(s.order)
}

// URLs returns a copy of the members in insertion order.
func (s *SeenSet) URLs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Equal reports whether both sets hold the same members, ignoring order.
func (s *SeenSet) Equal(other *SeenSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, u := range s.order {
		if !other.Contains(u) {
			return false
		}
	}
	return true
}

// Store persists the seen-set between runs.
type Store interface {
	Load(ctx context.Context) (*SeenSet, error)
	Save(ctx context.Context, set *SeenSet) error
}

// MemoryStore keeps the set in process memory. Used by tests and dry runs.
type MemoryStore struct {
	mu    sync.Mutex
	urls  []string
	saves int
}

func NewMemoryStore(urls ...string) *MemoryStore {
	return &MemoryStore{urls: NewSeenSet(urls...).URLs()}
}

func (m *MemoryStore) Load(_ context.Context) (*SeenSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return NewSeenSet(m.urls...), nil
}

func (m *MemoryStore) Save(_ context.Context, set *SeenSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls = set.URLs()
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
