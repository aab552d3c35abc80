// Package kvutil provides utilities for working with NATS JetStream KeyValue stores.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// defaultRetries is used when the caller passes a non-positive retry count.
const defaultRetries = 3

// EnsureKVBucketWithRetry creates, updates or opens a KV bucket with retry logic.
//
// The bucket is created if missing and brought in line with config if it
// exists with different settings (TTL, storage, history). When the update is
// refused by the server (for example a storage type change) the existing
// bucket is opened as is. Transient failures are retried with exponential
// backoff.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - config: KV bucket configuration
//   - maxRetries: Maximum number of attempts (default: 3)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket instance
//   - error: Last error after all attempts
//
// Example:
//
//	kv, err := kvutil.EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
//	    Bucket:  "dashboard-snapshots",
//	    TTL:     time.Hour,
//	    Storage: jetstream.MemoryStorage,
//	}, 3)
func EnsureKVBucketWithRetry(
	ctx context.Context,
	js jetstream.JetStream,
	config jetstream.KeyValueConfig,
	maxRetries int,
) (jetstream.KeyValue, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if maxRetries <= 0 {
		maxRetries = defaultRetries
	}

	var lastErr error
	for attempt := range maxRetries {
		kv, err := ensureOnce(ctx, js, config)
		if err == nil {
			return kv, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled during KV bucket setup: %w", ctx.Err())
		}

		// Exponential backoff: 10ms, 20ms, 40ms...
		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * 10 * time.Millisecond //nolint:gosec // attempt is bounded by maxRetries
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("failed to create/open KV bucket %s after %d attempts: %w",
		config.Bucket, maxRetries, lastErr)
}

func ensureOnce(ctx context.Context, js jetstream.JetStream, config jetstream.KeyValueConfig) (jetstream.KeyValue, error) {
	kv, err := js.CreateOrUpdateKeyValue(ctx, config)
	if err == nil {
		return kv, nil
	}

	// Some settings cannot be changed in place; fall back to the existing bucket.
	existing, openErr := js.KeyValue(ctx, config.Bucket)
	if openErr == nil {
		return existing, nil
	}

	return nil, errors.Join(err, openErr)
}
