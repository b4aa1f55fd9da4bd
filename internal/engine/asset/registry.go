package asset

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Releaser is implemented by assets that hold resources beyond Go memory,
// such as GPU objects. Release is called when the registry drops the asset.
type Releaser interface {
	Release()
}

// Stats holds registry load counters.
type Stats struct {
	Hits     int
	Misses   int
	Failures int
}

type entry struct {
	key   string
	value any
}

var registryIDs atomic.Uint64

// Registry owns loaded assets and deduplicates them by logical key.
// For a given key at most one asset exists until it is removed.
type Registry struct {
	id     uint64
	nextID atomic.Uint64

	mu      sync.RWMutex
	assets  map[uint64]entry
	keys    map[string]uint64
	loading map[string]struct{}
	stats   Stats
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		id:      registryIDs.Add(1),
		assets:  make(map[uint64]entry),
		keys:    make(map[string]uint64),
		loading: make(map[string]struct{}),
	}
}

// GetOrLoad returns the handle cached under key, or runs load and caches its
// result under a fresh id. The loader may call GetOrLoad for dependencies.
// A failed load leaves the registry unmodified.
//
// Loads must run on a single goroutine. The registry cannot tell a recursive
// request for a key from a concurrent one, so any request for a key whose
// load has not returned yet fails with ErrLoadCycle.
func GetOrLoad[T any](r *Registry, key string, load func() (T, error)) (Handle[T], error) {
	r.mu.Lock()
	if id, ok := r.keys[key]; ok {
		defer r.mu.Unlock()
		e := r.assets[id]
		if _, ok := e.value.(T); !ok {
			return Handle[T]{}, fmt.Errorf("%w: key %q holds %T", ErrWrongKind, key, e.value)
		}
		r.stats.Hits++
		return Handle[T]{registry: r.id, id: id}, nil
	}
	if _, busy := r.loading[key]; busy {
		r.mu.Unlock()
		return Handle[T]{}, &LoadError{Key: key, Err: ErrLoadCycle}
	}
	r.loading[key] = struct{}{}
	r.stats.Misses++
	r.mu.Unlock()

	value, err := load()

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loading, key)
	if err != nil {
		r.stats.Failures++
		return Handle[T]{}, &LoadError{Key: key, Err: err}
	}

	id := r.nextID.Add(1)
	r.assets[id] = entry{key: key, value: value}
	r.keys[key] = id
	return Handle[T]{registry: r.id, id: id}, nil
}

// Resolve returns the live asset behind h. It reports false if the handle is
// invalid, was issued by another registry, dangles, or names another type.
func Resolve[T any](r *Registry, h Handle[T]) (T, bool) {
	var zero T
	if r == nil || !h.Valid() || h.registry != r.id {
		return zero, false
	}
	r.mu.RLock()
	e, ok := r.assets[h.id]
	r.mu.RUnlock()
	if !ok {
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

// Get is Resolve with an error describing why resolution failed.
func Get[T any](r *Registry, h Handle[T]) (T, error) {
	var zero T
	if r == nil || !h.Valid() || h.registry != r.id {
		return zero, fmt.Errorf("%w: %v", ErrNotFound, h)
	}
	r.mu.RLock()
	e, ok := r.assets[h.id]
	r.mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("%w: %v", ErrNotFound, h)
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %v holds %T", ErrWrongKind, h, e.value)
	}
	return v, nil
}

// Lookup returns the handle cached under key without loading anything.
func Lookup[T any](r *Registry, key string) (Handle[T], bool) {
	r.mu.RLock()
	id, ok := r.keys[key]
	var e entry
	if ok {
		e = r.assets[id]
	}
	r.mu.RUnlock()
	if !ok {
		return Handle[T]{}, false
	}
	if _, ok := e.value.(T); !ok {
		return Handle[T]{}, false
	}
	return Handle[T]{registry: r.id, id: id}, true
}

// Remove drops the asset cached under key. Existing handles to it dangle.
// It reports whether the key was present.
func (r *Registry) Remove(key string) bool {
	r.mu.Lock()
	id, ok := r.keys[key]
	if !ok {
		r.mu.Unlock()
		return false
	}
	e := r.assets[id]
	delete(r.keys, key)
	delete(r.assets, id)
	r.mu.Unlock()

	release(e.value)
	return true
}

// Clear drops every asset. Ids are not reused, so old handles keep dangling.
func (r *Registry) Clear() {
	r.mu.Lock()
	dropped := r.assets
	r.assets = make(map[uint64]entry)
	r.keys = make(map[string]uint64)
	r.mu.Unlock()

	for _, e := range dropped {
		release(e.value)
	}
}

// Len returns the number of live assets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.assets)
}

// Stats returns the load counters.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

func release(v any) {
	if rel, ok := v.(Releaser); ok {
		rel.Release()
	}
}
