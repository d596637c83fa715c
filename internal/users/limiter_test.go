package users

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/buildbid/backend/pkg/redis"
)

func TestLocalLimiter(t *testing.T) {
	l := NewLocalLimiter(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "a@test")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, _ := l.Allow(ctx, "a@test")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "b@test")
	assert.True(t, ok, "keys are independent")
}

func TestNewLoginLimiter_PicksBackend(t *testing.T) {
	_, isLocal := NewLoginLimiter(&redis.Client{}, 5, time.Minute).(*LocalLimiter)
	assert.True(t, isLocal)

	mr := miniredis.RunT(t)
	client := redis.NewFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	defer client.Close()

	limiter := NewLoginLimiter(client, 1, time.Minute)
	_, isRedis := limiter.(*RedisLimiter)
	require.True(t, isRedis)

	ctx := context.Background()
	ok, err := limiter.Allow(ctx, "a@test")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "a@test")
	require.NoError(t, err)
	assert.False(t, ok)
}
