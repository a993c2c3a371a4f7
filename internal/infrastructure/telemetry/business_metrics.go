package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics records shop activity: checkouts, category tree changes,
// lowest price recomputations and catalog health gauges.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	orderCreatedTotal       *Counter
	orderAmountTotal        *Counter
	categoryOperationTotal  *Counter
	priceRecomputeTotal     *Counter
	catalogOutOfStockCount  *Gauge
	catalogProductsPerBrand *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	catalogProvider CatalogMetricsProvider
}

// CatalogMetricsProvider supplies aggregated catalog state for the gauges.
// It lets the telemetry layer read the catalog without importing its domain.
type CatalogMetricsProvider interface {
	// CountOutOfStockVariants returns the number of variants with zero quantity
	CountOutOfStockVariants(ctx context.Context) (int64, error)

	// CountProductsByBrand returns the number of products per brand name
	CountProductsByBrand(ctx context.Context) (map[string]int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CatalogProvider CatalogMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		catalogProvider: cfg.CatalogProvider,
	}

	counters := []struct {
		target     **Counter
		name, desc string
		unit       string
	}{
		{&bm.orderCreatedTotal, "shop_order_created_total", "Total number of orders checked out", "{orders}"},
		{&bm.orderAmountTotal, "shop_order_amount_total", "Total order amount in cents", "{cents}"},
		{&bm.categoryOperationTotal, "shop_category_operation_total", "Category tree operations by outcome", "{operations}"},
		{&bm.priceRecomputeTotal, "shop_price_recompute_total", "Lowest price recomputations by trigger", "{recomputes}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	var err error
	bm.catalogOutOfStockCount, err = NewGauge(
		cfg.Meter,
		"shop_catalog_out_of_stock_variants",
		"Number of boutique variants with no stock",
		"{variants}",
	)
	if err != nil {
		return nil, err
	}

	bm.catalogProductsPerBrand, err = NewGauge(
		cfg.Meter,
		"shop_catalog_products",
		"Number of products per brand",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordOrderWithAmount records a checkout and its total.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, amount decimal.Decimal) {
	bm.orderCreatedTotal.Inc(ctx)
	bm.orderAmountTotal.Add(ctx, amount.Shift(2).IntPart())
}

// RecordCategoryOperation records a create, rename, move or delete on the category tree.
func (bm *BusinessMetrics) RecordCategoryOperation(ctx context.Context, operation string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	bm.categoryOperationTotal.Inc(ctx,
		AttrOperation.String(operation),
		AttrResult.String(result),
	)
}

// RecordPriceRecompute records a lowest price recomputation and what triggered it.
func (bm *BusinessMetrics) RecordPriceRecompute(ctx context.Context, reason string) {
	bm.priceRecomputeTotal.Inc(ctx, AttrReason.String(reason))
}

// RecordOutOfStockCount records the current number of variants without stock.
func (bm *BusinessMetrics) RecordOutOfStockCount(ctx context.Context, count int64) {
	bm.catalogOutOfStockCount.Record(ctx, count)
}

// RecordBrandProductCount records the current number of products of a brand.
func (bm *BusinessMetrics) RecordBrandProductCount(ctx context.Context, brand string, count int64) {
	bm.catalogProductsPerBrand.Record(ctx, count, AttrBrand.String(brand))
}

// StartPeriodicCollection refreshes the catalog gauges every interval
// (5 minutes when zero). It returns immediately; call Stop to end it.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectCatalogMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectCatalogMetrics(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectCatalogMetrics(ctx context.Context) {
	if bm.catalogProvider == nil {
		bm.logger.Debug("No catalog provider configured, skipping catalog metrics collection")
		return
	}

	outOfStock, err := bm.catalogProvider.CountOutOfStockVariants(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count out of stock variants", zap.Error(err))
	} else {
		bm.RecordOutOfStockCount(ctx, outOfStock)
	}

	perBrand, err := bm.catalogProvider.CountProductsByBrand(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count products by brand", zap.Error(err))
		return
	}
	for brand, count := range perBrand {
		bm.RecordBrandProductCount(ctx, brand, count)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// Business attribute keys
var (
	AttrOperation = attribute.Key("operation")
	AttrResult    = attribute.Key("result")
	AttrReason    = attribute.Key("reason")
	AttrBrand     = attribute.Key("brand")
)
