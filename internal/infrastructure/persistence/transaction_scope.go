package persistence

import (
	"context"

	appshared "github.com/multimart/backend/internal/application/shared"
	"github.com/multimart/backend/internal/domain/cart"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/order"
	"github.com/multimart/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxWriter stores domain events in the outbox table using the caller's transaction
type OutboxWriter interface {
	PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error
}

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations, and events
// published through the scope land in the outbox in the same transaction.
type GormTransactionScope struct {
	db     *gorm.DB
	outbox OutboxWriter
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB, outbox OutboxWriter) *GormTransactionScope {
	return &GormTransactionScope{db: db, outbox: outbox}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appshared.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, outbox: s.outbox})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx     *gorm.DB
	outbox OutboxWriter
}

func (r *gormTransactionalRepositories) CartRepo() cart.CartRepository {
	return NewGormCartRepository(r.tx)
}

func (r *gormTransactionalRepositories) OrderRepo() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) CounterRepo() catalog.CounterRepository {
	return NewGormCounterRepository(r.tx)
}

// EventPublisher returns a publisher bound to the current transaction
func (r *gormTransactionalRepositories) EventPublisher() shared.EventPublisher {
	return &txEventPublisher{tx: r.tx, outbox: r.outbox}
}

type txEventPublisher struct {
	tx     *gorm.DB
	outbox OutboxWriter
}

func (p *txEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if p.outbox == nil || len(events) == 0 {
		return nil
	}
	return p.outbox.PublishWithTx(ctx, p.tx, events...)
}

var (
	_ appshared.TransactionScope          = (*GormTransactionScope)(nil)
	_ appshared.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
