package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/capbac/go-capbac/client"
	"github.com/capbac/go-capbac/internal/config"
	"github.com/capbac/go-capbac/principal"
	"github.com/capbac/go-capbac/principal/secp256k1/signer"
	"github.com/capbac/go-capbac/server"
	"github.com/capbac/go-capbac/state"
	"github.com/capbac/go-capbac/state/badger"
	"github.com/sirupsen/logrus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// app holds the dependencies shared by commands. Each is created on first
// use and released by Shutdown.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	out   io.Writer
	clock func() time.Time

	ledger *badger.Context
	reader *sdkmetric.ManualReader
	meter  *sdkmetric.MeterProvider
}

func newApp(out io.Writer) (*app, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, out: out, clock: time.Now}, nil
}

func newLogger(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.Out = out
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}

func (a *app) Signer() (principal.Signer, error) {
	b, err := os.ReadFile(a.cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	return signer.Parse(strings.TrimSpace(string(b)))
}

func (a *app) Client() (*client.Client, error) {
	s, err := a.Signer()
	if err != nil {
		return nil, err
	}
	return client.New(s, client.WithClock(a.clock))
}

func (a *app) Ledger() (*badger.Context, error) {
	if a.ledger != nil {
		return a.ledger, nil
	}
	db, err := badger.Open(
		a.cfg.StateDir,
		badger.WithNamespaces(state.Prefix()),
		badger.WithLogger(a.log.WithField("component", "badger")),
	)
	if err != nil {
		return nil, err
	}
	a.ledger = db
	return db, nil
}

func (a *app) Handler() (server.Handler, error) {
	opts := []server.Option{
		server.WithLogger(a.log),
		server.WithClock(a.clock),
		server.WithStateCacheSize(a.cfg.StateCacheSize),
		server.WithErrorHandler(func(err server.HandlerExecutionError) {
			a.log.WithField("action", err.Action()).Debug(err.Stack())
		}),
	}
	if a.cfg.MetricsEnabled {
		a.reader = sdkmetric.NewManualReader()
		a.meter = sdkmetric.NewMeterProvider(sdkmetric.WithReader(a.reader))
		opts = append(opts, server.WithMeterProvider(a.meter))
	}
	return server.NewHandler(opts...)
}

// Shutdown reports collected metrics and closes the ledger.
func (a *app) Shutdown(ctx context.Context) {
	if a.reader != nil {
		a.reportMetrics(ctx)
		_ = a.meter.Shutdown(ctx)
	}
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			a.log.WithError(err).Error("closing ledger")
		}
	}
}

func (a *app) reportMetrics(ctx context.Context) {
	var rm metricdata.ResourceMetrics
	if err := a.reader.Collect(ctx, &rm); err != nil {
		a.log.WithError(err).Warn("collecting metrics")
		return
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				fields := logrus.Fields{"metric": m.Name, "value": dp.Value}
				for _, kv := range dp.Attributes.ToSlice() {
					fields[string(kv.Key)] = kv.Value.Emit()
				}
				a.log.WithFields(fields).Info("metric")
			}
		}
	}
}
