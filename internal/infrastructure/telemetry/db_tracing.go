package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

// DBTracingConfig controls query spans
type DBTracingConfig struct {
	DBName             string
	IncludeVariables   bool
	SlowQueryThreshold time.Duration
	TracerProvider     trace.TracerProvider
}

type queryStartKey struct{}

// DBTracer emits one span per query through otelgorm and flags queries
// slower than the threshold, both on the span and in the log
type DBTracer struct {
	cfg    DBTracingConfig
	logger *zap.Logger
	since  func(time.Time) time.Duration
}

// NewDBTracer creates a tracer; a zero threshold selects 200ms
func NewDBTracer(cfg DBTracingConfig, logger *zap.Logger) *DBTracer {
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = defaultSlowQueryThreshold
	}
	if cfg.DBName == "" {
		cfg.DBName = "postgresql"
	}
	return &DBTracer{cfg: cfg, logger: logger, since: time.Since}
}

// Register installs otelgorm and the slow query callbacks on db
func (t *DBTracer) Register(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(t.cfg.DBName)}
	if !t.cfg.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if t.cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(t.cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	hooks := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, h := range hooks {
		if err := h.before("slow_query:before_"+h.op, t.markStart); err != nil {
			return err
		}
		if err := h.after("slow_query:after_"+h.op, t.checkSlow); err != nil {
			return err
		}
	}

	t.logger.Info("database tracing enabled",
		zap.Bool("include_variables", t.cfg.IncludeVariables),
		zap.Duration("slow_query_threshold", t.cfg.SlowQueryThreshold),
	)
	return nil
}

func (t *DBTracer) markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (t *DBTracer) checkSlow(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}

	elapsed := t.since(start)
	if elapsed <= t.cfg.SlowQueryThreshold {
		return
	}

	t.logger.Warn("slow query",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows_affected", db.Statement.RowsAffected),
		zap.Bool("failed", db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound)),
	)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
