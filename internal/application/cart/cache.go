package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrCacheMiss is returned by a Cache when no entry exists for the user
var ErrCacheMiss = errors.New("cart cache miss")

// Cache stores rendered carts keyed by user
type Cache interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error)
	Set(ctx context.Context, userID uuid.UUID, cart *CartResponse) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// Metrics records cart activity
type Metrics interface {
	RecordCartOperation(ctx context.Context, operation string)
}

// Cart operations reported to Metrics
const (
	OperationAddItem     = "add_item"
	OperationUpdateItem  = "update_item"
	OperationRemoveItem  = "remove_item"
	OperationClear       = "clear"
	OperationApplyCoupon = "apply_coupon"
)

type noopCache struct{}

func (noopCache) Get(context.Context, uuid.UUID) (*CartResponse, error) { return nil, ErrCacheMiss }
func (noopCache) Set(context.Context, uuid.UUID, *CartResponse) error  { return nil }
func (noopCache) Delete(context.Context, uuid.UUID) error              { return nil }

type noopMetrics struct{}

func (noopMetrics) RecordCartOperation(context.Context, string) {}
