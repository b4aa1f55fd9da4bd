// Package asset provides typed handles and the registry that owns loaded assets.
//
// A Handle never owns its asset. It is resolved through the registry that
// issued it, and a handle whose asset was removed resolves to nothing.
package asset

import "fmt"

// Handle is a copyable, non-owning reference to an asset of type T.
// The zero Handle is invalid.
type Handle[T any] struct {
	registry uint64
	id       uint64
}

// ID returns the asset id. Zero means invalid.
func (h Handle[T]) ID() uint64 {
	return h.id
}

// Valid reports whether the handle was issued by a registry.
// A valid handle can still dangle after Remove.
func (h Handle[T]) Valid() bool {
	return h.id != 0
}

// String implements fmt.Stringer.
func (h Handle[T]) String() string {
	if !h.Valid() {
		return "Handle(invalid)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.registry, h.id)
}
