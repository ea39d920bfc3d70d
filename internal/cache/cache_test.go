package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zerosugar/explorer/internal/domain"
)

func newRedisStore(t *testing.T, ttl time.Duration) (Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	cats := []domain.Category{{ID: 1, Name: "음료"}, {ID: 2, Name: "초콜릿"}}
	require.NoError(t, store.Save(ctx, "categories", cats))
	assert.True(t, mr.Exists("zse:snapshot:categories"))

	var got []domain.Category
	ok, err := store.Load(ctx, "categories", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cats, got)
}

func TestRedisStoreMiss(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)

	var got []domain.Product
	ok, err := store.Load(context.Background(), "products", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreExpires(t *testing.T) {
	store, mr := newRedisStore(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sweeteners", []domain.Sweetener{{ID: 1, Name: "알룰로오스"}}))
	mr.FastForward(31 * time.Second)

	var got []domain.Sweetener
	ok, err := store.Load(ctx, "sweeteners", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreCorruptSnapshot(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	require.NoError(t, mr.Set("zse:snapshot:products", "not json"))

	var got []domain.Product
	_, err := store.Load(context.Background(), "products", &got)
	assert.Error(t, err)
}

func TestNoopStoreNeverHits(t *testing.T) {
	store := NewNoopStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "products", []int{1}))

	var got []int
	ok, err := store.Load(ctx, "products", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
