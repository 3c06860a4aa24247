// Package storage is the durable key-value mechanism behind the booking
// store: one serialized value per well-known key, surviving restarts, with a
// change-notification channel to sibling execution contexts on the same
// machine. Subscribers only ever see externally-originated changes; a context
// never observes its own writes, mirroring browser storage-event semantics.
package storage

// Store is the durable store seen by one execution context. Implementations
// must make Set atomic from the perspective of a single read/write pair;
// there is no cross-context locking, so concurrent read-modify-write
// sequences race and the last full write wins.
type Store interface {
	// Get returns the value under key. A missing key is (nil, false, nil),
	// not an error.
	Get(key string) ([]byte, bool, error)

	// Set replaces the entire value under key atomically and makes the
	// change observable to sibling contexts.
	Set(key string, value []byte) error

	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(key string) error

	// Subscribe registers fn for externally-originated changes to key. The
	// payload is advisory; consumers should reload from the store rather
	// than trust it. The returned cancel func unregisters fn.
	Subscribe(key string, fn func(payload []byte)) (cancel func())

	// Close releases watcher resources. The store must not be used after.
	Close() error
}
