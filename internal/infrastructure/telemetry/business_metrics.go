package telemetry

import (
	"context"
	"fmt"

	appcart "github.com/multimart/backend/internal/application/cart"
	apporder "github.com/multimart/backend/internal/application/order"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// OrderValueBuckets are order total boundaries in the store currency
var OrderValueBuckets = []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000, 50000}

// OutboxCounter reports outbox entries per status
type OutboxCounter interface {
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
}

// BusinessMetrics records cart and order activity
type BusinessMetrics struct {
	logger *zap.Logger

	cartOperations *Counter
	ordersPlaced   *Counter
	orderValue     *Histogram
	statusChanges  *Counter
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	cartOperations, err := NewCounter(meter, "cart_operations_total", "Cart mutations by operation", "{operation}")
	if err != nil {
		return nil, err
	}
	ordersPlaced, err := NewCounter(meter, "orders_placed_total", "Orders placed by payment method", "{order}")
	if err != nil {
		return nil, err
	}
	orderValue, err := NewHistogram(meter, HistogramOpts{
		Name:        "order_value",
		Description: "Order grand totals",
		Unit:        "{currency}",
		Boundaries:  OrderValueBuckets,
	})
	if err != nil {
		return nil, err
	}
	statusChanges, err := NewCounter(meter, "order_status_changes_total", "Order status transitions", "{transition}")
	if err != nil {
		return nil, err
	}

	return &BusinessMetrics{
		logger:         logger,
		cartOperations: cartOperations,
		ordersPlaced:   ordersPlaced,
		orderValue:     orderValue,
		statusChanges:  statusChanges,
	}, nil
}

// RecordCartOperation counts one cart mutation
func (m *BusinessMetrics) RecordCartOperation(ctx context.Context, operation string) {
	m.cartOperations.Inc(ctx, AttrCartOperation.String(operation))
}

// RecordOrderPlaced counts an order and records its total
func (m *BusinessMetrics) RecordOrderPlaced(ctx context.Context, paymentMethod string, total decimal.Decimal) {
	attr := AttrPaymentMethod.String(paymentMethod)
	m.ordersPlaced.Inc(ctx, attr)
	m.orderValue.Record(ctx, total.InexactFloat64(), attr)
}

// RecordOrderStatusChange counts one transition
func (m *BusinessMetrics) RecordOrderStatusChange(ctx context.Context, from, to string) {
	m.statusChanges.Inc(ctx, AttrOrderFrom.String(from), AttrOrderTo.String(to))
}

// RegisterOutboxGauge observes outbox backlog per status at each collection
func RegisterOutboxGauge(meter metric.Meter, counter OutboxCounter, logger *zap.Logger) error {
	_, err := meter.Int64ObservableGauge("outbox_entries",
		metric.WithDescription("Outbox entries by status"),
		metric.WithUnit("{entry}"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			counts, err := counter.CountByStatus(ctx)
			if err != nil {
				logger.Warn("failed to count outbox entries", zap.Error(err))
				return nil
			}
			for status, n := range counts {
				o.Observe(n, metric.WithAttributes(AttrOutboxStatus.String(string(status))))
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox gauge: %w", err)
	}
	return nil
}

var (
	_ appcart.Metrics  = (*BusinessMetrics)(nil)
	_ apporder.Metrics = (*BusinessMetrics)(nil)
)
