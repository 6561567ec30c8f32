// Package shared holds application-layer ports used by more than one service.
package shared

import (
	"context"

	"github.com/multimart/backend/internal/domain/cart"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/order"
	"github.com/multimart/backend/internal/domain/shared"
)

// TransactionScope provides transactional access to the repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// Events published through EventPublisher are written to the outbox table in
// the same transaction, so they are only relayed when the aggregate change commits.
type TransactionalRepositories interface {
	CartRepo() cart.CartRepository
	OrderRepo() order.OrderRepository
	ProductRepo() catalog.ProductRepository
	CounterRepo() catalog.CounterRepository
	EventPublisher() shared.EventPublisher
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	carts     cart.CartRepository
	orders    order.OrderRepository
	products  catalog.ProductRepository
	counters  catalog.CounterRepository
	publisher shared.EventPublisher
}

// NoOpRepositories lists the repositories handed out by a NoOpTransactionScope.
// Nil fields are allowed for services that never touch them.
type NoOpRepositories struct {
	Carts     cart.CartRepository
	Orders    order.OrderRepository
	Products  catalog.ProductRepository
	Counters  catalog.CounterRepository
	Publisher shared.EventPublisher
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(r NoOpRepositories) *NoOpTransactionScope {
	publisher := r.Publisher
	if publisher == nil {
		publisher = discardPublisher{}
	}
	return &NoOpTransactionScope{
		carts:     r.Carts,
		orders:    r.Orders,
		products:  r.Products,
		counters:  r.Counters,
		publisher: publisher,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CartRepo returns the cart repository.
func (s *NoOpTransactionScope) CartRepo() cart.CartRepository {
	return s.carts
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository {
	return s.orders
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.products
}

// CounterRepo returns the counter repository.
func (s *NoOpTransactionScope) CounterRepo() catalog.CounterRepository {
	return s.counters
}

// EventPublisher returns the event publisher.
func (s *NoOpTransactionScope) EventPublisher() shared.EventPublisher {
	return s.publisher
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, ...shared.DomainEvent) error {
	return nil
}

// PublishPending publishes the pending events of an aggregate and clears them
func PublishPending(ctx context.Context, publisher shared.EventPublisher, agg shared.AggregateRoot) error {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		return err
	}
	agg.ClearDomainEvents()
	return nil
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
