package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client, time.Hour), mr
}

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	profile := Profile{ID: "u-1", Email: "admin@dentalcenter.com", FirstName: "Dr. Admin", LastName: "User", Role: RoleAdmin}
	require.NoError(t, store.Put(ctx, "sess-1", profile))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, profile, got)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStoreMissing(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting a missing session is not an error.
	assert.NoError(t, store.Delete(context.Background(), "nope"))
}

func TestRedisSessionStoreCorruptEntryCleared(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("session:user:sess-x", "{not json"))

	_, err := store.Get(ctx, "sess-x")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.False(t, mr.Exists("session:user:sess-x"), "corrupt entry should be deleted")
}

func TestRedisSessionStoreTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sess-ttl", Profile{ID: "u-2"}))
	mr.FastForward(2 * time.Hour)

	_, err := store.Get(ctx, "sess-ttl")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
