package adminmenu

import (
	"context"
	"sort"
	"sync"
)

// ScopeKind names a configuration ownership level.
type ScopeKind string

const (
	// ScopeRole configuration is shared by every user holding the role.
	ScopeRole ScopeKind = "role"
	// ScopeUser configuration is personal and opt-in.
	ScopeUser ScopeKind = "user"
	// ScopeDefault marks the empty fallback at the end of the chain. It is
	// never stored; it only appears in provenance reports.
	ScopeDefault ScopeKind = "default"
)

// ScopeSelector addresses one configuration scope for resolve and save
// calls. A zero selector means "personal": the caller's own user scope with
// role fallback.
type ScopeSelector struct {
	Kind   ScopeKind
	Role   string
	UserID string
}

// Store persists one configuration document per scope key. Implementations
// supply whatever backend the host uses; the core only ever issues one
// load or save per field operation and imposes no locking of its own, so a
// store's own read-modify-write atomicity is the only consistency guarantee.
type Store[T any] interface {
	Load(ctx context.Context, key string) (value T, ok bool, err error)
	Save(ctx context.Context, key string, value T) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// MemoryStore is a minimal in-memory Store intended for tests and examples.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	records map[string]T
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{records: map[string]T{}}
}

// Load implements Store.
func (s *MemoryStore[T]) Load(_ context.Context, key string) (T, bool, error) {
	s.mu.RLock()
	value, ok := s.records[key]
	s.mu.RUnlock()
	return value, ok, nil
}

// Save implements Store.
func (s *MemoryStore[T]) Save(_ context.Context, key string, value T) error {
	s.mu.Lock()
	s.records[key] = value
	s.mu.Unlock()
	return nil
}

// Delete implements Store. Deleting a missing key is not an error.
func (s *MemoryStore[T]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// Keys implements Store, returning keys in sorted order for determinism.
func (s *MemoryStore[T]) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}
