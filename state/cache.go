package state

import (
	"fmt"

	"github.com/capbac/go-capbac/core/token"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"
)

var DefaultCacheSize = 256

// Cache remembers decoded device states by the blake3 digest of their stored
// bytes. It is safe for concurrent use and only hands out copies.
type Cache struct {
	data *lru.Cache[[32]byte, token.DeviceState]
}

// NewCache creates a decode cache holding up to size states. Pass a value
// less than 1 to use [DefaultCacheSize].
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	data, err := lru.New[[32]byte, token.DeviceState](size)
	if err != nil {
		return nil, fmt.Errorf("creating device state LRU: %w", err)
	}
	return &Cache{data: data}, nil
}

func (c *Cache) Get(b []byte) (token.DeviceState, bool) {
	s, ok := c.data.Get(blake3.Sum256(b))
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

func (c *Cache) Add(b []byte, s token.DeviceState) {
	c.data.Add(blake3.Sum256(b), s.Clone())
}

func (c *Cache) Len() int {
	return c.data.Len()
}
