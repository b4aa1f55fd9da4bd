package asset

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the handle or key does not refer to a live asset.
	ErrNotFound = errors.New("asset not found")
	// ErrWrongKind means the stored asset is not of the requested type.
	ErrWrongKind = errors.New("asset has a different kind")
	// ErrLoadCycle means a loader asked for the key it is currently loading.
	ErrLoadCycle = errors.New("asset load cycle")
)

// LoadError wraps a failed construction of the asset stored under Key.
type LoadError struct {
	Key string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading asset %q: %v", e.Key, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
