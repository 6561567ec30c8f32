package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which events a consumer has already handled.
// The outbox relay delivers at least once, so handlers with side effects sit
// behind a store.
type IdempotencyStore interface {
	// MarkProcessed records eventID for ttl. It returns false when the id was
	// already recorded.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether eventID is currently recorded
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls duplicate suppression for event handlers
type IdempotencyConfig struct {
	// TTL is how long a handled event id is remembered
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig remembers event ids for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
