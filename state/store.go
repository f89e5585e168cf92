// Package state reads and writes the capability set of a device in the
// ledger's key-value state.
package state

import (
	"context"
	"errors"
	"slices"

	"github.com/capbac/go-capbac/core/ipld"
	"github.com/capbac/go-capbac/core/ipld/block"
	"github.com/capbac/go-capbac/core/ipld/codec/cbor"
	"github.com/capbac/go-capbac/core/ipld/hash/sha512"
	"github.com/capbac/go-capbac/core/token"
)

// Option is an option configuring a device state store.
type Option func(cfg *storeConfig)

type storeConfig struct {
	cache *Cache
}

// WithCache configures a cache of decoded states shared between stores.
func WithCache(cache *Cache) Option {
	return func(cfg *storeConfig) {
		cfg.cache = cache
	}
}

type Store struct {
	host  Context
	cache *Cache
}

func NewStore(host Context, options ...Option) *Store {
	cfg := storeConfig{}
	for _, opt := range options {
		opt(&cfg)
	}
	return &Store{host: host, cache: cfg.cache}
}

// Load reads the capability set of device. A device with nothing stored has
// an empty capability set.
func (s *Store) Load(ctx context.Context, device string) (token.DeviceState, error) {
	addr := Address(device)
	entries, err := s.host.GetState(ctx, []string{addr})
	if err != nil {
		return nil, NewStateReadError(addr, err)
	}
	b, ok := entries[addr]
	if !ok || len(b) == 0 {
		return token.DeviceState{}, nil
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(b); ok {
			return cached, nil
		}
	}
	decoded, err := Decode(b)
	if err != nil {
		return nil, NewStateCorruptionError(addr, err)
	}
	if s.cache != nil {
		s.cache.Add(b, decoded)
	}
	return decoded, nil
}

// Put writes the capability set of device in a single host call and returns
// the content identifier of the stored bytes.
func (s *Store) Put(ctx context.Context, device string, state token.DeviceState) (ipld.Link, error) {
	addr := Address(device)
	b, err := Encode(state)
	if err != nil {
		return nil, NewStateWriteError(addr, err)
	}
	blk, err := block.FromBytes(b, cbor.Code, sha512.Hasher)
	if err != nil {
		return nil, NewStateWriteError(addr, err)
	}
	written, err := s.host.SetState(ctx, map[string][]byte{addr: b})
	if err != nil {
		return nil, NewStateWriteError(addr, err)
	}
	if !slices.Contains(written, addr) {
		return nil, NewStateWriteError(addr, errors.New("address not written by host"))
	}
	if s.cache != nil {
		s.cache.Add(b, state)
	}
	return blk.Link(), nil
}
