package locker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testLockKey = "test:lock"

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// instances returns a constructor for lockers that contend on the same keys,
// as separate service instances would.
type instances func(t *testing.T) func() DistributedLocker

var implementations = map[string]instances{
	"redis": func(t *testing.T) func() DistributedLocker {
		client, _ := setupTestRedis(t)

		return func() DistributedLocker { return NewRedisLocker(client, zap.NewNop()) }
	},
	"local": func(_ *testing.T) func() DistributedLocker {
		shared := NewLocalLocker()

		return func() DistributedLocker { return shared }
	},
}

func TestLocker_Contract(t *testing.T) {
	ctx := context.Background()

	for name, setup := range implementations {
		t.Run(name+"/exclusive until released", func(t *testing.T) {
			newLocker := setup(t)
			first, second := newLocker(), newLocker()

			acquired, err := first.Acquire(ctx, testLockKey, time.Minute)
			require.NoError(t, err)
			require.True(t, acquired)

			acquired, err = second.Acquire(ctx, testLockKey, time.Minute)
			require.NoError(t, err)
			assert.False(t, acquired, "held lock must not be granted twice")

			require.NoError(t, first.Release(ctx, testLockKey))

			acquired, err = second.Acquire(ctx, testLockKey, time.Minute)
			require.NoError(t, err)
			assert.True(t, acquired, "released lock must be available")
		})

		t.Run(name+"/keys are independent", func(t *testing.T) {
			l := setup(t)()

			for _, key := range []string{"a", "b"} {
				acquired, err := l.Acquire(ctx, key, time.Minute)
				require.NoError(t, err)
				assert.True(t, acquired, key)
			}
		})

		t.Run(name+"/one winner under contention", func(t *testing.T) {
			newLocker := setup(t)

			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				wins int
			)
			for range 5 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if ok, _ := newLocker().Acquire(ctx, testLockKey, time.Minute); ok {
						mu.Lock()
						wins++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, wins)
		})

		t.Run(name+"/canceled context", func(t *testing.T) {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			acquired, err := setup(t)().Acquire(canceled, testLockKey, time.Minute)
			require.Error(t, err)
			assert.False(t, acquired)
		})

		t.Run(name+"/release of unheld key", func(t *testing.T) {
			assert.NoError(t, setup(t)().Release(ctx, "never-taken"))
		})
	}
}

func TestRedisLocker_ReleaseByNonOwnerKeepsLock(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()
	owner := NewRedisLocker(client, zap.NewNop())
	other := NewRedisLocker(client, zap.NewNop())

	acquired, err := owner.Acquire(ctx, testLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, other.Release(ctx, testLockKey))

	acquired, err = other.Acquire(ctx, testLockKey, time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired, "only the owner may release")
}

func TestRedisLocker_ExpiresAfterTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	acquired, err := NewRedisLocker(client, zap.NewNop()).Acquire(ctx, testLockKey, 10*time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	// Cooldown elapsed: another instance may run the next sync.
	mr.FastForward(11 * time.Minute)

	acquired, err = NewRedisLocker(client, zap.NewNop()).Acquire(ctx, testLockKey, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}
