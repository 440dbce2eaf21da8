package media

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenStore(t *testing.T) (*RedisTokenStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisTokenStore(client), mr
}

func TestRedisTokenStore_SaveTake(t *testing.T) {
	store, _ := setupTokenStore(t)
	ctx := context.Background()

	rec := UploadRecord{Filename: "photo.jpg", BlobName: "abc.jpg"}
	require.NoError(t, store.Save(ctx, "tok-1", rec, time.Minute))

	got, err := store.Take(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)

	// Tokens are single use.
	_, err = store.Take(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedisTokenStore_Take_Unknown(t *testing.T) {
	store, _ := setupTokenStore(t)

	_, err := store.Take(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedisTokenStore_Take_Expired(t *testing.T) {
	store, mr := setupTokenStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", UploadRecord{Filename: "a.png"}, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := store.Take(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
