package telemetry

import (
	"context"
	"testing"

	"github.com/imamecatronica/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := newSQLiteDB(t)
	err := RegisterDBTracing(db, config.TelemetryConfig{Enabled: true, DBTraceEnabled: false}, zaptest.NewLogger(t))
	assert.NoError(t, err)
}

func TestRegisterDBTracing_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	db := newSQLiteDB(t)
	require.NoError(t, RegisterDBTracing(db, config.TelemetryConfig{Enabled: true, DBTraceEnabled: true}, zaptest.NewLogger(t)))

	var n int
	require.NoError(t, db.WithContext(context.Background()).Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
	assert.NotEmpty(t, recorder.Ended())
}

func TestRegisterDBPoolMetrics(t *testing.T) {
	reader, provider := newTestMeter(t)
	db := newSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	reg, err := RegisterDBPoolMetrics(provider.Meter("test"), sqlDB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Unregister() })

	got := collect(t, reader)
	maxConns, ok := got["db_pool_connections_max"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, maxConns.DataPoints, 1)
	assert.Equal(t, int64(1), maxConns.DataPoints[0].Value)

	conns, ok := got["db_pool_connections"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, conns.DataPoints, 2)
}

func TestStartServiceSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	ctx, span := StartServiceSpan(context.Background(), "pending_income", "list_clients")
	assert.NotEmpty(t, GetTraceID(ctx))
	EndSpan(span, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "pending_income.list_clients", ended[0].Name())
	assert.Empty(t, GetTraceID(context.Background()))
}
