package server

import (
	"time"

	"github.com/capbac/go-capbac/state"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/metric"
)

// Option is an option configuring a capbac transaction handler.
type Option func(cfg *handlerConfig) error

type handlerConfig struct {
	logger        logrus.FieldLogger
	catch         ErrorHandlerFunc
	clock         func() time.Time
	meterProvider metric.MeterProvider
	cache         *state.Cache
}

// WithLogger configures the logger decisions are reported to. By default
// nothing is logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *handlerConfig) error {
		cfg.logger = logger
		return nil
	}
}

// WithErrorHandler configures a function to be called when an internal error
// occurs while applying a transaction.
func WithErrorHandler(fn ErrorHandlerFunc) Option {
	return func(cfg *handlerConfig) error {
		cfg.catch = fn
		return nil
	}
}

// WithClock configures the source of the current time. The clock is read
// once per transaction.
func WithClock(clock func() time.Time) Option {
	return func(cfg *handlerConfig) error {
		cfg.clock = clock
		return nil
	}
}

// WithMeterProvider configures where transaction metrics are reported.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *handlerConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithStateCacheSize enables a cache of decoded device states holding up to
// size entries.
func WithStateCacheSize(size int) Option {
	return func(cfg *handlerConfig) error {
		cache, err := state.NewCache(size)
		if err != nil {
			return err
		}
		cfg.cache = cache
		return nil
	}
}
