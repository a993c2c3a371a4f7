package shared

import (
	"context"
	"time"
)

// IdempotencyStore records client-supplied idempotency keys so that a retried
// request is not applied twice.
type IdempotencyStore interface {
	// Reserve records the key with a TTL.
	// Returns true if the key was newly reserved, false if it was already taken.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release removes a reservation so the key can be used again, typically
	// after the guarded operation failed.
	Release(ctx context.Context, key string) error

	// IsReserved checks whether the key is currently reserved
	IsReserved(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a reserved key blocks a replay. Default: 24 hours
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled. Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
