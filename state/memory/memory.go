// Package memory is an in-memory ledger state, for tests and for embedding
// the handler in a process without a ledger.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/capbac/go-capbac/state"
)

// Option is an option configuring an in-memory state.
type Option func(cfg *memConfig)

type memConfig struct {
	namespaces []string
}

// WithNamespaces restricts reads and writes to addresses under the given
// prefixes.
func WithNamespaces(prefixes ...string) Option {
	return func(cfg *memConfig) {
		cfg.namespaces = prefixes
	}
}

type Context struct {
	mu         sync.RWMutex
	data       map[string][]byte
	namespaces []string
}

func New(options ...Option) *Context {
	cfg := memConfig{}
	for _, opt := range options {
		opt(&cfg)
	}
	return &Context{data: map[string][]byte{}, namespaces: cfg.namespaces}
}

func (c *Context) authorized(address string) error {
	if len(c.namespaces) > 0 && !state.InNamespace(address, c.namespaces) {
		return fmt.Errorf("address %s is outside the authorized namespaces", address)
	}
	return nil
}

func (c *Context) GetState(ctx context.Context, addresses []string) (map[string][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := map[string][]byte{}
	for _, addr := range addresses {
		if err := c.authorized(addr); err != nil {
			return nil, err
		}
		if b, ok := c.data[addr]; ok {
			out[addr] = slices.Clone(b)
		}
	}
	return out, nil
}

func (c *Context) SetState(ctx context.Context, entries map[string][]byte) ([]string, error) {
	for addr := range entries {
		if err := c.authorized(addr); err != nil {
			return nil, err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for addr, b := range entries {
		c.data[addr] = slices.Clone(b)
	}
	return slices.Sorted(maps.Keys(entries)), nil
}

// Snapshot copies the current contents.
func (c *Context) Snapshot() map[string][]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]byte, len(c.data))
	for addr, b := range c.data {
		out[addr] = slices.Clone(b)
	}
	return out
}

var _ state.Context = (*Context)(nil)
