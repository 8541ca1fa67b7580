package httpapi

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/sweepd/internal/httpapi"

// Metrics holds decision-path instruments.
type Metrics struct {
	meter       metric.Meter
	logger      *zap.Logger
	decisions   metric.Int64Counter
	decisionDur metric.Float64Histogram
}

// NewMetrics creates decision metrics on the global meter provider.
func NewMetrics(logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Metrics{
		meter:  otel.Meter(instrumentationName),
		logger: logger,
	}
	m.init()
	return m
}

func (m *Metrics) init() {
	var err error

	m.decisions, err = m.meter.Int64Counter(
		"sweepd.decisions_total",
		metric.WithDescription("Decisions issued, labeled by endpoint, action, and matched category."),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		m.logger.Warn("failed to create decisions counter", zap.Error(err))
	}

	m.decisionDur, err = m.meter.Float64Histogram(
		"sweepd.decision_duration_seconds",
		metric.WithDescription("End-to-end decision latency including the preferences lookup."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0),
	)
	if err != nil {
		m.logger.Warn("failed to create decision duration histogram", zap.Error(err))
	}
}

// RecordDecision records one decision with its latency.
func (m *Metrics) RecordDecision(ctx context.Context, endpoint, action, category string, elapsed time.Duration) {
	if category == "" {
		category = "none"
	}
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("action", action),
		attribute.String("category", category),
	)
	if m.decisions != nil {
		m.decisions.Add(ctx, 1, attrs)
	}
	if m.decisionDur != nil {
		m.decisionDur.Record(ctx, elapsed.Seconds(), attrs)
	}
}
