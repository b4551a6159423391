package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espalierhq/espalier/pkg/adapters/redis"
	"github.com/espalierhq/espalier/pkg/domain"
	"github.com/espalierhq/espalier/pkg/ports"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunSnapshotStoreContract(t, store)
}

func TestRedisStore_TTLExpiryPrunedFromList(t *testing.T) {
	store, mr := newTestStore(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	snap := domain.Snapshot{Value: "idle", Context: domain.Context{}}
	require.NoError(t, store.Save(ctx, "chat", snap))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"chat"}, ids)

	// Let the snapshot key expire; the index entry should be pruned on
	// the next List.
	mr.FastForward(2 * time.Minute)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = store.Load(ctx, "chat")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestRedisStore_CustomPrefix(t *testing.T) {
	store, mr := newTestStore(t, redis.WithPrefix("flows:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "chat", domain.Snapshot{Value: "idle"}))
	assert.True(t, mr.Exists("flows:chat"))
}
