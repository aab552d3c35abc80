package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/superKazi/awal-lazard/chart"
	"github.com/superKazi/awal-lazard/internal/kvutil"
	"github.com/superKazi/awal-lazard/internal/logging"
	"github.com/superKazi/awal-lazard/internal/metrics"
	"github.com/superKazi/awal-lazard/internal/natsutil"
	"github.com/superKazi/awal-lazard/types"
)

// Defaults for optional configuration.
const (
	DefaultBucket  = "dashboard-snapshots"
	DefaultKey     = "chart.latest"
	DefaultTTL     = time.Hour
	DefaultTimeout = 5 * time.Second
)

// ErrPublisherStarted is returned when Start is called twice.
var ErrPublisherStarted = errors.New("snapshot publisher already started")

// Payload is the JSON document stored under the snapshot key.
type Payload struct {
	ChartKind   types.ChartKind  `json:"chartKind"`
	SampleCount int              `json:"sampleCount"`
	Generation  uint64           `json:"generation"`
	Fingerprint string           `json:"fingerprint"`
	PublishedAt time.Time        `json:"publishedAt"`
	Spec        *types.ChartSpec `json:"spec"`
}

// Config holds publisher configuration.
//
// Either KeyValue or JetStream is required. With only JetStream set, the
// bucket is created (or updated) on New.
type Config struct {
	// Required dependencies (one of)
	KeyValue  jetstream.KeyValue
	JetStream jetstream.JetStream

	// Optional configuration (with defaults)
	Bucket  string        // Bucket name (default: "dashboard-snapshots")
	Key     string        // Key holding the latest snapshot (default: "chart.latest")
	TTL     time.Duration // Bucket TTL (default: 1h)
	Timeout time.Duration // Timeout of a single Put (default: 5s)

	// Optional dependencies
	Metrics types.SnapshotMetrics // Metrics collector (default: no-op)
	Logger  types.Logger          // Logger (default: no-op)
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.KeyValue == nil && c.JetStream == nil {
		return errors.New("either KeyValue or JetStream is required")
	}
	if c.TTL < 0 || c.Timeout < 0 {
		return errors.New("durations must not be negative")
	}

	return nil
}

// SetDefaults applies default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Bucket == "" {
		c.Bucket = DefaultBucket
	}
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewNop()
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
}

// Publisher writes chart snapshots to a KV bucket.
//
// Submit never blocks: a single background goroutine publishes the most
// recent pending snapshot and older pending ones are replaced.
type Publisher struct {
	kv      jetstream.KeyValue
	key     string
	timeout time.Duration
	metrics types.SnapshotMetrics
	logger  types.Logger

	mu      sync.Mutex
	pending chan *types.Snapshot
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a publisher, ensuring the bucket exists when needed.
//
// Parameters:
//   - ctx: Context bounding bucket creation
//   - cfg: Publisher configuration
//
// Returns:
//   - *Publisher: New publisher (not started)
//   - error: Configuration or bucket error
func New(ctx context.Context, cfg *Config) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.SetDefaults()

	kv := cfg.KeyValue
	if kv == nil {
		var err error
		kv, err = EnsureBucket(ctx, cfg.JetStream, cfg.Bucket, cfg.TTL)
		if err != nil {
			return nil, err
		}
	}

	return &Publisher{
		kv:      kv,
		key:     cfg.Key,
		timeout: cfg.Timeout,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		pending: make(chan *types.Snapshot, 1),
	}, nil
}

// EnsureBucket creates or opens the memory-backed snapshot bucket.
//
// Parameters:
//   - ctx: Context bounding bucket creation
//   - js: JetStream context
//   - bucket: Bucket name
//   - ttl: Entry TTL (0 keeps entries forever)
//
// Returns:
//   - jetstream.KeyValue: The bucket
//   - error: Bucket error after retries
func EnsureBucket(ctx context.Context, js jetstream.JetStream, bucket string, ttl time.Duration) (jetstream.KeyValue, error) {
	kv, err := kvutil.EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "latest dashboard chart snapshot",
		TTL:         ttl,
		Storage:     jetstream.MemoryStorage,
		History:     1,
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure snapshot bucket: %w", err)
	}

	return kv, nil
}

// Bucket returns the bucket name.
func (p *Publisher) Bucket() string { return p.kv.Bucket() }

// Key returns the key holding the latest snapshot.
func (p *Publisher) Key() string { return p.key }

// Start launches the background publishing goroutine.
func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrPublisherStarted
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Go(func() { p.run(ctx) })

	return nil
}

// Stop ends the background goroutine, dropping any pending snapshot.
func (p *Publisher) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Submit queues snap for publishing, replacing any snapshot not yet sent.
// Snapshots without a chart are ignored.
func (p *Publisher) Submit(snap *types.Snapshot) {
	if snap == nil || snap.Chart == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case <-p.pending:
	default:
	}
	p.pending <- snap
}

// Publish writes snap synchronously.
//
// Parameters:
//   - ctx: Context for the Put
//   - snap: Snapshot with a chart
//
// Returns:
//   - uint64: Revision of the stored entry
//   - error: Encoding or transport error
func (p *Publisher) Publish(ctx context.Context, snap *types.Snapshot) (uint64, error) {
	start := time.Now()
	rev, err := p.put(ctx, snap)
	p.metrics.RecordSnapshotPublish(time.Since(start).Seconds(), err == nil)

	if err != nil {
		if natsutil.IsConnectivityError(err) {
			p.logger.Warn("snapshot publish failed", "key", p.key, "error", err)
		} else {
			p.logger.Error("snapshot publish failed", "key", p.key, "error", err)
		}

		return 0, err
	}
	p.logger.Debug("snapshot published", "key", p.key, "revision", rev, "generation", snap.Generation)

	return rev, nil
}

// Latest reads the most recently published snapshot.
func (p *Publisher) Latest(ctx context.Context) (*Payload, error) {
	entry, err := p.kv.Get(ctx, p.key)
	if err != nil {
		return nil, err
	}

	return Decode(entry.Value())
}

// Decode parses a stored snapshot payload.
func Decode(data []byte) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &payload, nil
}

func (p *Publisher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-p.pending:
			putCtx, cancel := context.WithTimeout(ctx, p.timeout)
			_, _ = p.Publish(putCtx, snap)
			cancel()
		}
	}
}

func (p *Publisher) put(ctx context.Context, snap *types.Snapshot) (uint64, error) {
	if snap == nil || snap.Chart == nil {
		return 0, errors.New("snapshot has no chart")
	}

	fp, err := chart.Fingerprint(snap.Chart)
	if err != nil {
		return 0, err
	}

	data, err := json.Marshal(Payload{
		ChartKind:   snap.ChartKind,
		SampleCount: snap.SampleCount,
		Generation:  snap.Generation,
		Fingerprint: fmt.Sprintf("%016x", fp),
		PublishedAt: time.Now().UTC(),
		Spec:        snap.Chart,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return p.kv.Put(ctx, p.key, data)
}
