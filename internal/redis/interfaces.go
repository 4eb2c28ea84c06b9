package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error)
	ReleaseTripLock(ctx context.Context, tripID string) error
}

// LiveStoreInterface defines the interface for live position tracking.
type LiveStoreInterface interface {
	SetPosition(ctx context.Context, pos *LivePosition) error
	GetPosition(ctx context.Context, tripID string) (*LivePosition, error)
	RemovePosition(ctx context.Context, tripID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface = (*LockStore)(nil)
	_ LiveStoreInterface = (*LiveStore)(nil)
)
