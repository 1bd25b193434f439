// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// SlotStore defines the secondary port for the persisted local key-value store.
// A slot holds an opaque payload that is always read and written whole.
// Implementations are best-effort and synchronous; no transactions are implied.
type SlotStore interface {
	// Read returns the payload stored under name.
	// found is false when the slot has never been written.
	Read(ctx context.Context, name string) (payload []byte, found bool, err error)

	// Write replaces the payload stored under name.
	Write(ctx context.Context, name string, payload []byte) error
}
