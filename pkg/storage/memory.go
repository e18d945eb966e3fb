package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps diagrams in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	diagrams map[string]*Diagram
	now      func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{diagrams: make(map[string]*Diagram), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, d *Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prepare(d, s.now())
	if _, ok := s.diagrams[d.ID]; ok {
		return ErrDuplicate
	}
	cp := *d
	s.diagrams[d.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diagrams[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context, opts ListOptions) ([]Summary, error) {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.diagrams))
	for _, d := range s.diagrams {
		out = append(out, d.Summary())
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if opts.Offset >= len(out) {
		return []Summary{}, nil
	}
	out = out[max(opts.Offset, 0):]
	return out[:min(len(out), opts.limit())], nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.diagrams[id]; !ok {
		return ErrNotFound
	}
	delete(s.diagrams, id)
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
