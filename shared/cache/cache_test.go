package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/infras/otel/mocks"
	"innkeep/shared/cache"
)

type summary struct {
	Occupied int `json:"occupied"`
	Total    int `json:"total"`
}

func TestRedisCacheSaveAndGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	redisCache := cache.NewRedisCache(client, mocks.NewOtel())
	ctx := context.Background()

	mock.ExpectSet("dashboard:p1", []byte(`{"occupied":3,"total":10}`), 30*time.Second).SetVal("OK")
	require.NoError(t, redisCache.Save(ctx, "dashboard:p1", summary{Occupied: 3, Total: 10}, 30))

	mock.ExpectGet("dashboard:p1").SetVal(`{"occupied":3,"total":10}`)

	var got summary
	require.NoError(t, redisCache.Get(ctx, "dashboard:p1", &got))
	assert.Equal(t, summary{Occupied: 3, Total: 10}, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheGetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	redisCache := cache.NewRedisCache(client, mocks.NewOtel())

	mock.ExpectGet("room:get:r1").RedisNil()

	var got summary
	err := redisCache.Get(context.Background(), "room:get:r1", &got)

	assert.ErrorIs(t, err, cache.Nil)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheGetString(t *testing.T) {
	client, mock := redismock.NewClientMock()
	redisCache := cache.NewRedisCache(client, mocks.NewOtel())

	mock.ExpectGet("token").SetVal("raw")

	var got string
	require.NoError(t, redisCache.Get(context.Background(), "token", &got))
	assert.Equal(t, "raw", got)
}

func TestRedisCacheDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	redisCache := cache.NewRedisCache(client, mocks.NewOtel())

	mock.ExpectDel("room:get:r1").SetVal(1)
	assert.NoError(t, redisCache.Delete(context.Background(), "room:get:r1"))

	mock.ExpectDel("room:get:r2").SetErr(errors.New("connection reset"))
	assert.Error(t, redisCache.Delete(context.Background(), "room:get:r2"))
}

func TestRedisCacheLock(t *testing.T) {
	client, mock := redismock.NewClientMock()
	redisCache := cache.NewRedisCache(client, mocks.NewOtel())
	ctx := context.Background()

	mock.ExpectSetNX("sweeper:lock", "worker-a", time.Minute).SetVal(true)
	acquired, err := redisCache.Lock(ctx, "sweeper:lock", "worker-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	mock.ExpectSetNX("sweeper:lock", "worker-b", time.Minute).SetVal(false)
	acquired, err = redisCache.Lock(ctx, "sweeper:lock", "worker-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	assert.NoError(t, mock.ExpectationsWereMet())
}
