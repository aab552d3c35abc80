package reactive

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/superKazi/awal-lazard/internal/logging"
	"github.com/superKazi/awal-lazard/types"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()

	loop := NewLoop(logging.NewNop())
	require.NoError(t, loop.Start(context.Background()))
	t.Cleanup(loop.Stop)

	return loop
}

func TestLoop_DoRunsSynchronously(t *testing.T) {
	loop := startLoop(t)

	ran := false
	err := loop.Do(context.Background(), func() { ran = true })
	require.NoError(t, err)
	require.True(t, ran)
}

func TestLoop_StartTwice(t *testing.T) {
	loop := startLoop(t)

	err := loop.Start(context.Background())
	require.ErrorIs(t, err, types.ErrLoopAlreadyStarted)
}

func TestLoop_NotRunning(t *testing.T) {
	loop := NewLoop(logging.NewNop())

	require.False(t, loop.Running())
	require.ErrorIs(t, loop.Do(context.Background(), func() {}), types.ErrLoopNotRunning)
	require.ErrorIs(t, loop.Post(func() {}), types.ErrLoopNotRunning)

	require.NoError(t, loop.Start(context.Background()))
	require.True(t, loop.Running())

	loop.Stop()
	require.False(t, loop.Running())
	require.ErrorIs(t, loop.Do(context.Background(), func() {}), types.ErrLoopNotRunning)

	// Stop is idempotent.
	loop.Stop()
}

func TestLoop_ContextCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(logging.NewNop())
	require.NoError(t, loop.Start(ctx))

	cancel()
	require.Eventually(t, func() bool { return !loop.Running() }, time.Second, 5*time.Millisecond)
	loop.Stop()
}

func TestLoop_PostPreservesOrder(t *testing.T) {
	loop := startLoop(t)

	var got []int
	for i := range 10 {
		require.NoError(t, loop.Post(func() { got = append(got, i) }))
	}

	// Do queues behind the posted tasks.
	require.NoError(t, loop.Do(context.Background(), func() {}))
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestLoop_PanicDoesNotKillLoop(t *testing.T) {
	loop := startLoop(t)

	require.NoError(t, loop.Do(context.Background(), func() { panic("boom") }))

	var ran atomic.Bool
	require.NoError(t, loop.Do(context.Background(), func() { ran.Store(true) }))
	require.True(t, ran.Load())
}

func TestLoop_DoHonorsContext(t *testing.T) {
	loop := startLoop(t)

	release := make(chan struct{})
	require.NoError(t, loop.Post(func() { <-release }))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := loop.Do(ctx, func() {})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
