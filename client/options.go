package client

import "time"

// Option is an option configuring a capbac client.
type Option func(cfg *clientConfig) error

type clientConfig struct {
	clock func() time.Time
}

// WithClock configures the source of the issue instant and of the expiry
// check made before signing.
func WithClock(clock func() time.Time) Option {
	return func(cfg *clientConfig) error {
		cfg.clock = clock
		return nil
	}
}
