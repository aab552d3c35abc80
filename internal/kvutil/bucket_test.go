package kvutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	dashtest "github.com/superKazi/awal-lazard/testing"
)

func TestEnsureKVBucketWithRetry(t *testing.T) {
	_, nc := dashtest.StartEmbeddedNATS(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	t.Run("creates missing bucket", func(t *testing.T) {
		kv, err := EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
			Bucket:  "snapshots-create",
			TTL:     time.Minute,
			Storage: jetstream.MemoryStorage,
		}, 3)
		require.NoError(t, err)
		require.Equal(t, "snapshots-create", kv.Bucket())

		status, err := kv.Status(ctx)
		require.NoError(t, err)
		require.Equal(t, time.Minute, status.TTL())
	})

	t.Run("updates existing bucket", func(t *testing.T) {
		cfg := jetstream.KeyValueConfig{Bucket: "snapshots-update", TTL: time.Minute, Storage: jetstream.MemoryStorage}
		_, err := EnsureKVBucketWithRetry(ctx, js, cfg, 3)
		require.NoError(t, err)

		cfg.TTL = 2 * time.Minute
		kv, err := EnsureKVBucketWithRetry(ctx, js, cfg, 3)
		require.NoError(t, err)

		status, err := kv.Status(ctx)
		require.NoError(t, err)
		require.Equal(t, 2*time.Minute, status.TTL())
	})

	t.Run("concurrent callers share one bucket", func(t *testing.T) {
		const callers = 5
		var wg sync.WaitGroup
		errs := make(chan error, callers)

		for range callers {
			wg.Go(func() {
				kv, err := EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
					Bucket:  "snapshots-concurrent",
					Storage: jetstream.MemoryStorage,
				}, 5)
				if err == nil {
					_, err = kv.Put(ctx, "chart.latest", []byte("{}"))
				}
				errs <- err
			})
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
	})

	t.Run("requires bucket name", func(t *testing.T) {
		_, err := EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{}, 1)
		require.Error(t, err)
	})
}

func TestEnsureKVBucketWithRetry_ContextCancelled(t *testing.T) {
	_, nc := dashtest.StartEmbeddedNATS(t)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{Bucket: "cancelled"}, 3)
	require.Error(t, err)
}
