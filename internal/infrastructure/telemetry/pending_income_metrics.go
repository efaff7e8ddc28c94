package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Outcome values recorded on load metrics
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// PendingIncomeMetrics holds the pending-income business instruments
type PendingIncomeMetrics struct {
	loads         *Counter
	loadDuration  *Histogram
	discrepancies *Counter
}

// NewPendingIncomeMetrics registers the pending-income instruments on meter
func NewPendingIncomeMetrics(meter metric.Meter) (*PendingIncomeMetrics, error) {
	loads, err := NewCounter(meter,
		"pending_income.loads",
		"Pending-income loads by outcome",
		"{load}",
	)
	if err != nil {
		return nil, err
	}

	loadDuration, err := NewHistogram(meter,
		"pending_income.load_duration",
		"Time spent loading and aggregating pending income",
		"ms",
		LoadDurationBuckets...,
	)
	if err != nil {
		return nil, err
	}

	discrepancies, err := NewCounter(meter,
		"pending_income.aggregate_discrepancies",
		"Clients whose reported total differs from the sum of their invoices",
		"{client}",
	)
	if err != nil {
		return nil, err
	}

	return &PendingIncomeMetrics{
		loads:         loads,
		loadDuration:  loadDuration,
		discrepancies: discrepancies,
	}, nil
}

// RecordLoad records one load and its duration
func (m *PendingIncomeMetrics) RecordLoad(ctx context.Context, operation string, d time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.loads.Inc(ctx, AttrOperation.String(operation), AttrOutcome.String(outcome))
	m.loadDuration.Record(ctx, float64(d.Microseconds())/1000, AttrOperation.String(operation))
}

// RecordDiscrepancy counts a client with an inconsistent total
func (m *PendingIncomeMetrics) RecordDiscrepancy(ctx context.Context) {
	m.discrepancies.Inc(ctx)
}
