package maintenance

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/buildbid/backend/pkg/logger"
	"github.com/wonny/buildbid/backend/pkg/redis"
)

type fakeStore struct {
	enabled bool
	err     error
	reads   int
}

func (f *fakeStore) Enabled(context.Context) (bool, error) {
	f.reads++
	return f.enabled, f.err
}

func (f *fakeStore) SetEnabled(_ context.Context, enabled bool) error {
	if f.err != nil {
		return f.err
	}
	f.enabled = enabled
	return nil
}

func TestService_ReadFailureIsInactive(t *testing.T) {
	svc := NewService(&fakeStore{enabled: true, err: errors.New("db down")}, nil, logger.Nop())
	assert.False(t, svc.Active(context.Background()))
}

func TestService_CachesFlag(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { client.Close() })

	store := &fakeStore{}
	svc := NewService(store, redis.NewCache(client, redis.KeyPrefix), logger.Nop())
	ctx := context.Background()

	assert.False(t, svc.Active(ctx))
	assert.False(t, svc.Active(ctx))
	assert.Equal(t, 1, store.reads)

	require.NoError(t, svc.SetActive(ctx, true))
	assert.True(t, svc.Active(ctx))
	assert.Equal(t, 1, store.reads, "SetActive refreshes the cache")
}

func TestService_SetActive_Error(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("db down")}, nil, logger.Nop())
	assert.Error(t, svc.SetActive(context.Background(), true))
}
