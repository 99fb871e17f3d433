package container

import (
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// InstanceStore maps each TypeIdentity to one memoized instance.
//
// Entries are write-once: a populated key is never overwritten or removed.
// Construction is serialized per key only, so builds for different types
// proceed in parallel. A failed build leaves the key absent and the next
// caller builds again.
type InstanceStore struct {
	mu    sync.RWMutex
	items map[TypeIdentity]any

	// in-flight builds, keyed by identity
	inflight singleflight.Group
}

// NewInstanceStore creates an empty store.
func NewInstanceStore() *InstanceStore {
	return &InstanceStore{items: make(map[TypeIdentity]any)}
}

// Load returns the memoized instance for id.
func (s *InstanceStore) Load(id TypeIdentity) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	return v, ok
}

// LoadOrConstruct returns the instance for id, running build at most once
// across all concurrent callers for the same id. Callers that wait on
// another caller's build share its result or its error. constructed is true
// only for the caller whose build produced the stored value.
//
// A build returning (nil, nil) stores nothing.
func (s *InstanceStore) LoadOrConstruct(id TypeIdentity, build func() (any, error)) (v any, constructed bool, err error) {
	if v, ok := s.Load(id); ok {
		return v, false, nil
	}

	v, err, _ = s.inflight.Do(string(id), func() (any, error) {
		// a build for id may have finished between Load and Do
		if v, ok := s.Load(id); ok {
			return v, nil
		}
		v, err := build()
		if err != nil || v == nil {
			return nil, err
		}
		s.mu.Lock()
		s.items[id] = v
		s.mu.Unlock()
		constructed = true
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, constructed, nil
}

// Len returns the number of memoized instances.
func (s *InstanceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Identities returns the memoized identities, sorted.
func (s *InstanceStore) Identities() []TypeIdentity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TypeIdentity, 0, len(s.items))
	for id := range s.items {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
