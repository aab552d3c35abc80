package source

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/superKazi/awal-lazard/types"
)

// Defaults for the random walk generator.
const (
	DefaultLatency = 2 * time.Second
)

// DefaultEpoch is the date of the first generated point.
var DefaultEpoch = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// RandomWalk generates a random walk series after a simulated latency.
//
// It stands in for a real business-logic data source.
type RandomWalk struct {
	latency time.Duration
	epoch   time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

var _ types.DataSource = (*RandomWalk)(nil)

// RandomWalkOption configures a RandomWalk source.
type RandomWalkOption func(*RandomWalk)

// NewRandomWalk creates a new random walk source.
//
// Parameters:
//   - opts: Optional configuration (WithLatency, WithEpoch, WithSeed)
//
// Returns:
//   - *RandomWalk: Initialized source (2s latency, epoch 2023-01-01 UTC, random seed)
//
// Example:
//
//	src := source.NewRandomWalk(
//	    source.WithLatency(100*time.Millisecond),
//	    source.WithSeed(42),
//	)
func NewRandomWalk(opts ...RandomWalkOption) *RandomWalk {
	rw := &RandomWalk{
		latency: DefaultLatency,
		epoch:   DefaultEpoch,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // not security sensitive
	}

	for _, opt := range opts {
		opt(rw)
	}

	return rw
}

// WithLatency sets the simulated computation time. Zero disables the wait.
func WithLatency(d time.Duration) RandomWalkOption {
	return func(rw *RandomWalk) {
		rw.latency = d
	}
}

// WithEpoch sets the date of the first point.
func WithEpoch(epoch time.Time) RandomWalkOption {
	return func(rw *RandomWalk) {
		rw.epoch = epoch
	}
}

// WithSeed makes the generated values reproducible.
//
// Parameters:
//   - seed: Seed for the normal draws
//
// Returns:
//   - RandomWalkOption: Configuration option
func WithSeed(seed uint64) RandomWalkOption {
	return func(rw *RandomWalk) {
		rw.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // not security sensitive
	}
}

// Generate waits the simulated latency and returns sampleCount points.
//
// Dates start at the epoch and advance one day per point; values are the
// cumulative sum of independent standard normal draws.
//
// Parameters:
//   - ctx: Context for cancellation (aborts the latency wait)
//   - sampleCount: Number of points, must be > 0
//
// Returns:
//   - *types.Dataset: New dataset
//   - error: ErrInvalidSampleCount or the context error
func (rw *RandomWalk) Generate(ctx context.Context, sampleCount int) (*types.Dataset, error) {
	if sampleCount <= 0 {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidSampleCount, sampleCount)
	}

	if rw.latency > 0 {
		timer := time.NewTimer(rw.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	rw.mu.Lock()
	defer rw.mu.Unlock()

	ds := &types.Dataset{Points: make([]types.Point, sampleCount)}
	sum := 0.0
	for i := range sampleCount {
		sum += rw.rng.NormFloat64()
		ds.Points[i] = types.Point{
			Date:  rw.epoch.AddDate(0, 0, i),
			Value: sum,
		}
	}

	return ds, nil
}
