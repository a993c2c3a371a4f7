package telemetry

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testItem struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&testItem{}))
	return db
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: false}, zap.NewNop()))
	assert.Nil(t, db.Callback().Query().Get("otel_slow_query:after_query"))
}

func TestRegisterDBTracing_AnnotatesSpans(t *testing.T) {
	recorder := useSpanRecorder(t)
	db := openTestDB(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Nanosecond,
		DBSystem:        "sqlite",
	}, zap.NewNop()))

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&testItem{Name: "boots"}).Error)

	var found testItem
	err := db.WithContext(ctx).Where("name = ?", "missing").First(&found).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	var sawTable, sawSlow bool
	for _, s := range spans {
		for _, kv := range s.Attributes() {
			switch {
			case kv.Key == "db.sql.table" && kv.Value.AsString() == "test_items":
				sawTable = true
			case kv.Key == "db.slow_query" && kv.Value.AsBool():
				sawSlow = true
			}
		}
		assert.NotEqual(t, "Error", s.Status().Code.String(), "record not found must not fail the span")
	}
	assert.True(t, sawTable)
	assert.True(t, sawSlow)
}

func TestQueryElapsed(t *testing.T) {
	_, ok := queryElapsed(context.Background())
	assert.False(t, ok)

	ctx := context.WithValue(context.Background(), queryStartKey{}, time.Now().Add(-time.Second))
	elapsed, ok := queryElapsed(ctx)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, elapsed, time.Second)
}

func TestDetectOperationType(t *testing.T) {
	assert.Equal(t, "SELECT", detectOperationType("  select * from categories"))
	assert.Equal(t, "INSERT", detectOperationType("INSERT INTO orders"))
	assert.Equal(t, "UPDATE", detectOperationType("update products set lowest_price = 1"))
	assert.Equal(t, "DELETE", detectOperationType("DELETE FROM likes"))
	assert.Equal(t, "OTHER", detectOperationType("PRAGMA foreign_keys"))
}

func TestDBMetrics_Plugin(t *testing.T) {
	provider, reader := newTestMeter(t)
	metrics, err := NewDBMetrics(provider.Meter("db.client"), DBMetricsConfig{Enabled: true, SlowQueryThreshold: time.Hour}, nil)
	require.NoError(t, err)

	db := openTestDB(t)
	require.NoError(t, db.Use(metrics))

	require.NoError(t, db.Create(&testItem{Name: "a"}).Error)
	require.NoError(t, db.Create(&testItem{Name: "b"}).Error)
	var items []testItem
	require.NoError(t, db.Find(&items).Error)

	total := collectMetric(t, reader, "db_query_total")
	assert.Equal(t, int64(2), sumFor(t, total, AttrDBOperation.String("INSERT")))
	assert.Equal(t, int64(1), sumFor(t, total, AttrDBOperation.String("SELECT")))
}

func TestDBMetrics_RecordQuerySlow(t *testing.T) {
	provider, reader := newTestMeter(t)
	metrics, err := NewDBMetrics(provider.Meter("db.client"), DBMetricsConfig{SlowQueryThreshold: 10 * time.Millisecond}, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordQuery(ctx, "select", "categories", time.Second)
	metrics.RecordQuery(ctx, "", "", time.Second)
	metrics.RecordQuery(ctx, "select", "categories", time.Millisecond)

	slow := collectMetric(t, reader, "db_slow_query_total")
	assert.Equal(t, int64(1), sumFor(t, slow, AttrDBTable.String("categories")))
	assert.Equal(t, int64(1), sumFor(t, slow, AttrDBTable.String("unknown")))
	assert.Equal(t, int64(1), sumFor(t, collectMetric(t, reader, "db_query_total"), attribute.String("db.operation", "OTHER")))
}

func TestDBMetrics_PoolStats(t *testing.T) {
	provider, reader := newTestMeter(t)
	metrics, err := NewDBMetrics(provider.Meter("db.client"), DBMetricsConfig{PoolStatsInterval: time.Hour}, nil)
	require.NoError(t, err)

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	sqlDB.SetMaxOpenConns(4)

	// The first sample is taken before the loop, so Stop waits for it
	metrics.StartPoolStatsCollection(context.Background(), sqlDB)
	metrics.Stop()
	metrics.Stop()

	assert.Equal(t, int64(4), gaugeFor(t, collectMetric(t, reader, "db_pool_connections_max")))
}

func TestRegisterDBMetrics_Disabled(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	m, err := RegisterDBMetrics(ctx, db, nil, DBMetricsConfig{Enabled: true}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)

	mp, err := NewMeterProvider(ctx, MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	m, err = RegisterDBMetrics(ctx, db, mp, DBMetricsConfig{Enabled: true}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)
}
