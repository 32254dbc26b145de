package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ProcessedStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewProcessedStore(client), server
}

func TestProcessedFlagLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	done, err := store.IsProcessed(ctx, "t-1")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, store.MarkProcessed(ctx, "t-1"))

	done, err = store.IsProcessed(ctx, "t-1")
	require.NoError(t, err)
	assert.True(t, done)

	require.NoError(t, store.ClearProcessed(ctx, "t-1"))

	done, err = store.IsProcessed(ctx, "t-1")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestProcessingLock(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	acquired, err := store.AcquireProcessing(ctx, "t-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = store.AcquireProcessing(ctx, "t-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, store.ReleaseProcessing(ctx, "t-1"))

	acquired, err = store.AcquireProcessing(ctx, "t-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestProcessingLockExpires(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	acquired, err := store.AcquireProcessing(ctx, "t-1", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	server.FastForward(2 * time.Minute)

	acquired, err = store.AcquireProcessing(ctx, "t-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestLocksAndFlagsArePerTranscript(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	acquired, err := store.AcquireProcessing(ctx, "t-1", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = store.AcquireProcessing(ctx, "t-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	require.NoError(t, store.MarkProcessed(ctx, "t-1"))

	done, err := store.IsProcessed(ctx, "t-2")
	require.NoError(t, err)
	assert.False(t, done)
}
