package bootstrap

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promptlab-content-service/internal/config"
	"promptlab-content-service/internal/infra/memory"
	"promptlab-content-service/internal/infra/newsletter"
	rediscache "promptlab-content-service/internal/infra/redis"
	"promptlab-content-service/pkg/locker"
)

func redisConfig(t *testing.T) config.RedisConfig {
	t.Helper()
	mr := miniredis.RunT(t)

	return config.RedisConfig{Enabled: true, Host: mr.Host(), Port: mustPort(t, mr)}
}

func mustPort(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	return port
}

func TestRedis(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		client, err := Redis(context.Background(), config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("connected", func(t *testing.T) {
		client, err := Redis(context.Background(), redisConfig(t))
		require.NoError(t, err)
		require.NotNil(t, client)
		defer client.Close()
	})

	t.Run("unreachable", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, err := Redis(ctx, config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1})
		require.Error(t, err)
	})
}

func TestCache(t *testing.T) {
	log := zap.NewNop()

	c, err := Cache(config.CacheConfig{}, nil, log)
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = Cache(config.CacheConfig{Enabled: true, Backend: CacheMemory, MemorySize: 8, CandidatesTTL: time.Minute}, nil, log)
	require.NoError(t, err)
	assert.IsType(t, &memory.Cache{}, c)

	_, err = Cache(config.CacheConfig{Enabled: true, Backend: CacheRedis}, nil, log)
	require.Error(t, err)

	client, err := Redis(context.Background(), redisConfig(t))
	require.NoError(t, err)
	defer client.Close()

	c, err = Cache(config.CacheConfig{Enabled: true, Backend: CacheRedis, KeyPrefix: "test"}, client, log)
	require.NoError(t, err)
	assert.IsType(t, &rediscache.Cache{}, c)

	_, err = Cache(config.CacheConfig{Enabled: true, Backend: "memcached"}, nil, log)
	require.Error(t, err)
}

func TestLocker(t *testing.T) {
	assert.IsType(t, &locker.LocalLocker{}, Locker(nil, zap.NewNop()))

	client, err := Redis(context.Background(), redisConfig(t))
	require.NoError(t, err)
	defer client.Close()

	assert.IsType(t, &locker.RedisLocker{}, Locker(client, zap.NewNop()))
}

func TestSubscriber(t *testing.T) {
	log := zap.NewNop()

	assert.Nil(t, Subscriber(config.NewsletterConfig{Provider: "none", APIKey: "k"}, log))
	assert.Nil(t, Subscriber(config.NewsletterConfig{Provider: newsletter.ButtondownName}, log))

	sub := Subscriber(config.NewsletterConfig{Provider: newsletter.ButtondownName, APIKey: "k", BaseURL: "http://localhost"}, log)
	require.NotNil(t, sub)
	assert.Equal(t, newsletter.ButtondownName, sub.Name())
}
