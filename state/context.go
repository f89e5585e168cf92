package state

import "context"

// Context is the view of the ledger's key-value state offered to a
// transaction handler.
type Context interface {
	// GetState returns the values stored at addresses. Addresses with nothing
	// stored are absent from the result.
	GetState(ctx context.Context, addresses []string) (map[string][]byte, error)
	// SetState writes entries and returns the addresses that were written.
	SetState(ctx context.Context, entries map[string][]byte) ([]string, error)
}
