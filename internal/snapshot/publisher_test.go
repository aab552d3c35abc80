package snapshot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	"github.com/superKazi/awal-lazard/chart"
	dashtest "github.com/superKazi/awal-lazard/testing"
	"github.com/superKazi/awal-lazard/types"
)

type countingMetrics struct {
	ok, failed atomic.Int32
}

func (m *countingMetrics) RecordSnapshotPublish(_ float64, success bool) {
	if success {
		m.ok.Add(1)
	} else {
		m.failed.Add(1)
	}
}

func testSnapshot(t *testing.T, kind types.ChartKind, n int, gen uint64) *types.Snapshot {
	t.Helper()

	spec, err := chart.NewVegaLite().Build(dashtest.Series(n), kind, "Random Data Plot", 600, 400)
	require.NoError(t, err)

	return &types.Snapshot{ChartKind: kind, SampleCount: n, Generation: gen, Chart: spec}
}

func newTestPublisher(t *testing.T, m types.SnapshotMetrics) (*Publisher, jetstream.JetStream) {
	t.Helper()

	_, nc := dashtest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := New(ctx, &Config{
		JetStream: js,
		Bucket:    "test-snapshots",
		TTL:       time.Minute,
		Metrics:   m,
		Logger:    dashtest.NewTestLogger(t),
	})
	require.NoError(t, err)

	return p, js
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(context.Background(), &Config{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid config")
}

func TestPublisher_Publish(t *testing.T) {
	m := &countingMetrics{}
	p, js := newTestPublisher(t, m)
	ctx := t.Context()

	require.Equal(t, "test-snapshots", p.Bucket())
	require.Equal(t, DefaultKey, p.Key())

	snap := testSnapshot(t, types.ChartKindBar, 10, 4)
	rev, err := p.Publish(ctx, snap)
	require.NoError(t, err)
	require.NotZero(t, rev)
	require.Equal(t, int32(1), m.ok.Load())

	latest, err := p.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, types.ChartKindBar, latest.ChartKind)
	require.Equal(t, 10, latest.SampleCount)
	require.Equal(t, uint64(4), latest.Generation)
	require.Len(t, latest.Spec.Data.Values, 10)

	fp, err := chart.Fingerprint(snap.Chart)
	require.NoError(t, err)
	require.Len(t, latest.Fingerprint, 16)
	require.Equal(t, chart.ETag(fp), `"`+latest.Fingerprint+`"`)

	// The bucket is memory backed.
	kv, err := js.KeyValue(ctx, "test-snapshots")
	require.NoError(t, err)
	status, err := kv.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, time.Minute, status.TTL())
	require.Equal(t, jetstream.MemoryStorage, status.(*jetstream.KeyValueBucketStatus).StreamInfo().Config.Storage)
}

func TestPublisher_PublishWithoutChart(t *testing.T) {
	m := &countingMetrics{}
	p, _ := newTestPublisher(t, m)

	_, err := p.Publish(t.Context(), &types.Snapshot{SampleCount: 3})
	require.Error(t, err)
	require.Equal(t, int32(1), m.failed.Load())
}

func TestPublisher_SubmitPublishesLatest(t *testing.T) {
	p, _ := newTestPublisher(t, nil)
	ctx := t.Context()

	require.NoError(t, p.Start(ctx))
	require.ErrorIs(t, p.Start(ctx), ErrPublisherStarted)
	defer p.Stop()

	p.Submit(nil)
	p.Submit(&types.Snapshot{})
	p.Submit(testSnapshot(t, types.ChartKindLine, 5, 1))
	p.Submit(testSnapshot(t, types.ChartKindLine, 7, 2))

	require.Eventually(t, func() bool {
		latest, err := p.Latest(ctx)
		return err == nil && latest.Generation == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestPublisher_StopIsIdempotent(t *testing.T) {
	p, _ := newTestPublisher(t, nil)

	p.Stop()
	require.NoError(t, p.Start(t.Context()))
	p.Stop()
	p.Stop()
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("not json"))
	require.Error(t, err)
}

func TestNew_WithKeyValue(t *testing.T) {
	_, nc := dashtest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	kv, err := EnsureBucket(t.Context(), js, "shared-snapshots", 0)
	require.NoError(t, err)

	p, err := New(t.Context(), &Config{KeyValue: kv, Key: "chart.custom"})
	require.NoError(t, err)
	require.Equal(t, "shared-snapshots", p.Bucket())

	_, err = p.Publish(t.Context(), testSnapshot(t, types.ChartKindLine, 3, 9))
	require.NoError(t, err)

	entry, err := kv.Get(t.Context(), "chart.custom")
	require.NoError(t, err)
	payload, err := Decode(entry.Value())
	require.NoError(t, err)
	require.Equal(t, uint64(9), payload.Generation)
}
