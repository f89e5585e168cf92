package server

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/capbac/go-capbac/server"

const (
	outcomeApplied  = "applied"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

type metrics struct {
	transactions metric.Int64Counter
	duration     metric.Float64Histogram
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	meter := mp.Meter(meterName)

	transactions, err := meter.Int64Counter(
		"capbac_transactions_total",
		metric.WithDescription("Total number of applied transactions"),
		metric.WithUnit("{transaction}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"capbac_apply_duration_seconds",
		metric.WithDescription("Duration of transaction application in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &metrics{transactions: transactions, duration: duration}, nil
}

func (m *metrics) record(ctx context.Context, action, outcome, category string, elapsed time.Duration) {
	m.transactions.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("outcome", outcome),
			attribute.String("category", category),
		),
	)
	m.duration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("outcome", outcome),
		),
	)
}
