package main

import (
	"context"
	"time"

	"github.com/shopmall/backend/internal/infrastructure/config"
	"github.com/shopmall/backend/internal/infrastructure/logger"
	"github.com/shopmall/backend/internal/infrastructure/persistence"
	"github.com/shopmall/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// telemetryStack owns the OpenTelemetry providers, the profiler and the
// collectors started on top of them
type telemetryStack struct {
	tracer    *telemetry.TracerProvider
	meters    *telemetry.MeterProvider
	logs      *telemetry.LoggerProvider
	profiler  *telemetry.Profiler
	dbMetrics *telemetry.DBMetrics
	business  *telemetry.BusinessMetrics
}

// setupTelemetry starts every provider and returns the logger to use from
// then on, teed into the OTEL log bridge when log export is enabled.
// Provider failures are logged and leave that signal disabled.
func setupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*telemetryStack, *zap.Logger) {
	t := &telemetryStack{}
	tc := cfg.Telemetry

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tc.Enabled && tc.LogsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Warn("OTEL log export disabled", zap.Error(err))
	} else {
		t.logs = lp
		if lp.IsEnabled() {
			bridged, err := logger.New(logger.Config{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Output: cfg.Log.Output,
			}, lp.ZapCore(logger.ParseLevel(cfg.Log.Level)))
			if err == nil {
				log = bridged
			}
		}
	}

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Warn("Tracing disabled", zap.Error(err))
	} else {
		t.tracer = tp
	}

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ExportInterval:    tc.MetricsInterval,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Warn("Metrics disabled", zap.Error(err))
	} else {
		t.meters = mp
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         tc.ProfilingEnabled,
		ServerAddress:   tc.ProfilingServerAddress,
		ApplicationName: tc.ServiceName,
	}, log)
	if err != nil {
		log.Warn("Continuous profiling disabled", zap.Error(err))
	} else {
		t.profiler = profiler
		if profiler.IsEnabled() && t.tracer != nil && t.tracer.IsEnabled() {
			if err := t.tracer.EnableSpanProfiles(); err != nil {
				log.Warn("Span profiles unavailable", zap.Error(err))
			}
		}
	}

	return t, log
}

// instrumentDatabase installs query tracing and pool metrics on the database
func (t *telemetryStack) instrumentDatabase(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) {
	tc := cfg.Telemetry
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         tc.Enabled && tc.DBTraceEnabled,
		LogFullSQL:      tc.DBLogFullSQL,
		SlowQueryThresh: tc.DBSlowQueryThresh,
	}, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}

	dbMetrics, err := telemetry.RegisterDBMetrics(ctx, db.DB, t.meters, telemetry.DBMetricsConfig{
		Enabled:            tc.Enabled,
		SlowQueryThreshold: tc.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Warn("Database metrics disabled", zap.Error(err))
		return
	}
	t.dbMetrics = dbMetrics
}

// businessMetrics creates the shop activity collector and starts the catalog
// gauges. It returns nil when metrics are disabled.
func (t *telemetryStack) businessMetrics(ctx context.Context, provider telemetry.CatalogMetricsProvider, log *zap.Logger) *telemetry.BusinessMetrics {
	if t.meters == nil || !t.meters.IsEnabled() {
		return nil
	}
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:           t.meters.Meter("shop.business"),
		Logger:          log,
		CatalogProvider: provider,
	})
	if err != nil {
		log.Warn("Business metrics disabled", zap.Error(err))
		return nil
	}
	bm.StartPeriodicCollection(ctx, time.Minute)
	t.business = bm
	return bm
}

// shutdown flushes and stops everything in reverse start order
func (t *telemetryStack) shutdown(log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if t.business != nil {
		t.business.Stop()
	}
	if t.dbMetrics != nil {
		t.dbMetrics.Stop()
	}
	if t.profiler != nil {
		if err := t.profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}
	if t.meters != nil {
		if err := t.meters.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}
	if t.tracer != nil {
		if err := t.tracer.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}
	if t.logs != nil {
		if err := t.logs.Shutdown(ctx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}
}
