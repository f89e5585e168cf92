// Package badger is a ledger state persisted in a badger database, used by
// the command line tool as a local ledger.
package badger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/capbac/go-capbac/state"
	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// Option is an option configuring a badger backed state.
type Option func(cfg *dbConfig)

type dbConfig struct {
	namespaces []string
	logger     logrus.FieldLogger
	inMemory   bool
}

// WithNamespaces restricts reads and writes to addresses under the given
// prefixes.
func WithNamespaces(prefixes ...string) Option {
	return func(cfg *dbConfig) {
		cfg.namespaces = prefixes
	}
}

// WithLogger routes badger's own logging to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *dbConfig) {
		cfg.logger = logger
	}
}

// WithInMemory keeps the database in memory, the directory is ignored.
func WithInMemory() Option {
	return func(cfg *dbConfig) {
		cfg.inMemory = true
	}
}

type Context struct {
	db         *badger.DB
	namespaces []string
	log        logrus.FieldLogger
}

func Open(dir string, options ...Option) (*Context, error) {
	cfg := dbConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	if cfg.logger != nil {
		opts.Logger = cfg.logger
	}
	if cfg.inMemory {
		opts = opts.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	log := cfg.logger
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &Context{db: db, namespaces: cfg.namespaces, log: log}, nil
}

func (c *Context) Close() error {
	return c.db.Close()
}

func (c *Context) authorized(address string) error {
	if len(c.namespaces) > 0 && !state.InNamespace(address, c.namespaces) {
		return fmt.Errorf("address %s is outside the authorized namespaces", address)
	}
	return nil
}

func (c *Context) GetState(ctx context.Context, addresses []string) (map[string][]byte, error) {
	for _, addr := range addresses {
		if err := c.authorized(addr); err != nil {
			return nil, err
		}
	}
	out := map[string][]byte{}
	err := c.db.View(func(txn *badger.Txn) error {
		for _, addr := range addresses {
			item, err := txn.Get([]byte(addr))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out[addr] = value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Context) SetState(ctx context.Context, entries map[string][]byte) ([]string, error) {
	addrs := slices.Sorted(maps.Keys(entries))
	for _, addr := range addrs {
		if err := c.authorized(addr); err != nil {
			return nil, err
		}
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		for _, addr := range addrs {
			if err := txn.Set([]byte(addr), entries[addr]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.log.WithField("addresses", addrs).Debug("state written")
	return addrs, nil
}

// Addresses lists every address in the database under prefix.
func (c *Context) Addresses(prefix string) ([]string, error) {
	var addrs []string
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			addrs = append(addrs, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return addrs, err
}

var _ state.Context = (*Context)(nil)
