// Package artifact provides the handoff store the image tools share: the
// generation tool saves the produced image here and the critique tool loads
// it back. The store makes the hand-off between tool implementations an
// explicit data-passing contract instead of hidden shared state on disk;
// a file-backed implementation is available where the on-disk contract of
// the original tooling must be preserved.
package artifact

import "errors"

// ErrNotFound is returned when no artifact exists under the requested name,
// or when Latest is called on an empty store.
var ErrNotFound = errors.New("artifact not found")

// Store is the image handoff contract between tool implementations.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores (or overwrites) the artifact bytes under name and marks
	// it as the latest artifact.
	Save(name string, data []byte) error
	// Get returns the artifact stored under name.
	Get(name string) ([]byte, error)
	// Latest returns the most recently saved artifact and its name.
	Latest() (string, []byte, error)
	// List returns the stored artifact names.
	List() ([]string, error)
	// Delete removes the artifact stored under name.
	Delete(name string) error
}
