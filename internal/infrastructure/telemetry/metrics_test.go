package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/imamecatronica/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := NewMeterProvider(ctx, config.TelemetryConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, config.TelemetryConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestPendingIncomeMetrics(t *testing.T) {
	ctx := context.Background()
	reader, provider := newTestMeter(t)

	m, err := NewPendingIncomeMetrics(provider.Meter("test"))
	require.NoError(t, err)

	m.RecordLoad(ctx, "list_clients", 120*time.Millisecond, nil)
	m.RecordLoad(ctx, "list_clients", 30*time.Millisecond, errors.New("db down"))
	m.RecordDiscrepancy(ctx)
	m.RecordDiscrepancy(ctx)

	got := collect(t, reader)

	loads, ok := got["pending_income.loads"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, loads.DataPoints, 2)
	for _, dp := range loads.DataPoints {
		assert.Equal(t, int64(1), dp.Value)
		outcome, _ := dp.Attributes.Value(AttrOutcome)
		assert.Contains(t, []string{OutcomeSuccess, OutcomeError}, outcome.AsString())
	}

	duration, ok := got["pending_income.load_duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, duration.DataPoints, 1)
	assert.Equal(t, uint64(2), duration.DataPoints[0].Count)
	assert.InDelta(t, 150.0, duration.DataPoints[0].Sum, 0.001)
	assert.Equal(t, "ms", got["pending_income.load_duration"].Unit)

	disc, ok := got["pending_income.aggregate_discrepancies"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, disc.DataPoints, 1)
	assert.Equal(t, int64(2), disc.DataPoints[0].Value)
}

func TestCounterAndHistogram(t *testing.T) {
	ctx := context.Background()
	reader, provider := newTestMeter(t)
	meter := provider.Meter("test")

	c, err := NewCounter(meter, "things", "things counted", "{thing}")
	require.NoError(t, err)
	c.Add(ctx, 3, attribute.String("k", "v"))
	c.Inc(ctx, attribute.String("k", "v"))

	h, err := NewHistogram(meter, "sizes", "sizes seen", "By", 10, 100)
	require.NoError(t, err)
	h.Record(ctx, 50)

	got := collect(t, reader)
	sum := got["things"].Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(4), sum.DataPoints[0].Value)

	hist := got["sizes"].Data.(metricdata.Histogram[float64])
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, []float64{10, 100}, hist.DataPoints[0].Bounds)
}
