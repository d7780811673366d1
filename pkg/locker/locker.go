// Package locker coordinates exclusive work across service instances and
// the operator CLI.
package locker

import (
	"context"
	"time"
)

// DistributedLocker grants a named lock to one holder at a time. A lock
// expires after its ttl even if never released, so a crashed holder cannot
// block others forever. Implementations must be safe for concurrent use.
//
// The ttl doubles as a cooldown: a holder that does not release keeps others
// out for the full ttl.
type DistributedLocker interface {
	// Acquire takes key for ttl. It reports false, without error, when
	// another holder has it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees key if this holder owns it and is a no-op otherwise.
	Release(ctx context.Context, key string) error
}

// WithLock runs fn while holding key. It reports false without calling fn
// when another holder has the lock. The lock is released when fn returns.
func WithLock(ctx context.Context, l DistributedLocker, key string, ttl time.Duration, fn func(ctx context.Context) error) (bool, error) {
	acquired, err := l.Acquire(ctx, key, ttl)
	if err != nil || !acquired {
		return false, err
	}

	defer func() {
		// Release on a fresh context: ctx may already be done.
		_ = l.Release(context.WithoutCancel(ctx), key)
	}()

	return true, fn(ctx)
}
