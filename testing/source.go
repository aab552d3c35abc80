package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/superKazi/awal-lazard/types"
)

// GatedCall is one pending Generate call of a GatedSource.
type GatedCall struct {
	SampleCount int
	Ctx         context.Context

	result chan gatedResult
}

type gatedResult struct {
	ds  *types.Dataset
	err error
}

// Succeed completes the call with a dataset of SampleCount points.
func (c *GatedCall) Succeed() {
	c.result <- gatedResult{ds: Series(c.SampleCount)}
}

// Return completes the call with the given result.
func (c *GatedCall) Return(ds *types.Dataset, err error) {
	c.result <- gatedResult{ds: ds, err: err}
}

// GatedSource is a DataSource whose calls block until the test releases them.
//
// Every Generate call is delivered on Calls(); it returns once the test calls
// Succeed or Return on it, or when its context ends.
type GatedSource struct {
	calls chan *GatedCall

	mu    sync.Mutex
	count int
}

var _ types.DataSource = (*GatedSource)(nil)

// NewGatedSource creates a gated data source.
func NewGatedSource() *GatedSource {
	return &GatedSource{calls: make(chan *GatedCall, 16)}
}

// Calls returns the channel of pending calls.
func (s *GatedSource) Calls() <-chan *GatedCall {
	return s.calls
}

// Count returns the number of Generate calls so far.
func (s *GatedSource) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count
}

// Next waits for the next call, failing the test after timeout.
func (s *GatedSource) Next(t testing.TB, timeout time.Duration) *GatedCall {
	t.Helper()

	select {
	case call := <-s.calls:
		return call
	case <-time.After(timeout):
		t.Fatalf("no Generate call within %s", timeout)
		return nil
	}
}

// Generate implements types.DataSource.
func (s *GatedSource) Generate(ctx context.Context, sampleCount int) (*types.Dataset, error) {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()

	call := &GatedCall{SampleCount: sampleCount, Ctx: ctx, result: make(chan gatedResult, 1)}
	select {
	case s.calls <- call:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-call.result:
		return r.ds, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Series returns a deterministic dataset of n points starting 2023-01-01 UTC.
func Series(n int) *types.Dataset {
	epoch := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	ds := &types.Dataset{Points: make([]types.Point, n)}
	for i := range n {
		ds.Points[i] = types.Point{Date: epoch.AddDate(0, 0, i), Value: float64(i)}
	}

	return ds
}
