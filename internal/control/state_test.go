package control

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/superKazi/awal-lazard/internal/logging"
	"github.com/superKazi/awal-lazard/internal/reactive"
	"github.com/superKazi/awal-lazard/types"
)

// countingMetrics records control metrics calls.
type countingMetrics struct {
	refreshes int
	invalid   []string
}

func (m *countingMetrics) RecordRefreshTriggered() { m.refreshes++ }
func (m *countingMetrics) RecordInvalidParameter(field string) { m.invalid = append(m.invalid, field) }

func newTestState(t *testing.T, cfg *Config) *State {
	t.Helper()

	loop := reactive.NewLoop(logging.NewNop())
	require.NoError(t, loop.Start(context.Background()))
	t.Cleanup(loop.Stop)

	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Loop = loop

	s, err := New(cfg)
	require.NoError(t, err)

	return s
}

func TestNew_Defaults(t *testing.T) {
	s := newTestState(t, nil)

	require.Equal(t, types.ChartKindLine, s.ChartKind())
	require.Equal(t, 50, s.SampleCount())
	require.Equal(t, DefaultMaxSampleCount, s.MaxSampleCount())
	require.False(t, s.Busy())
	require.Empty(t, s.Message())
	require.Empty(t, s.Validation())
	require.Zero(t, s.RefreshCount())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(&Config{})
	require.Error(t, err)

	loop := reactive.NewLoop(logging.NewNop())
	_, err = New(&Config{Loop: loop, ChartKind: "pie"})
	require.ErrorIs(t, err, types.ErrInvalidChartKind)

	_, err = New(&Config{Loop: loop, SampleCount: 20, MaxSampleCount: 10})
	require.ErrorIs(t, err, types.ErrInvalidSampleCount)
}

func TestState_SetChartKind(t *testing.T) {
	s := newTestState(t, nil)
	ctx := context.Background()

	var seen []any
	_, err := s.Subscribe(FieldChartKind, func(v any) { seen = append(seen, v) })
	require.NoError(t, err)

	require.NoError(t, s.SetChartKind(ctx, types.ChartKindBar))
	require.Equal(t, types.ChartKindBar, s.ChartKind())
	// Subscribers ran before SetChartKind returned.
	require.Equal(t, []any{types.ChartKindBar}, seen)

	err = s.SetChartKind(ctx, "pie")
	require.ErrorIs(t, err, types.ErrInvalidChartKind)
	require.ErrorIs(t, err, types.ErrInvalidParameter)
	require.Equal(t, types.ChartKindBar, s.ChartKind())
	require.NotEmpty(t, s.Validation())
}

func TestState_SetSampleCount(t *testing.T) {
	m := &countingMetrics{}
	s := newTestState(t, &Config{MaxSampleCount: 100, Metrics: m})
	ctx := context.Background()

	require.NoError(t, s.SetSampleCount(ctx, 10))
	require.Equal(t, 10, s.SampleCount())

	for _, n := range []int{0, -1, 101} {
		err := s.SetSampleCount(ctx, n)
		require.ErrorIs(t, err, types.ErrInvalidSampleCount, "n=%d", n)
		require.True(t, types.IsInvalidParameter(err))
		require.Equal(t, 10, s.SampleCount(), "previous value is kept")
		require.Equal(t, "Sample count must be between 1 and 100", s.Validation())
	}
	require.Equal(t, []string{"sample_count", "sample_count", "sample_count"}, m.invalid)

	// A valid set clears the validation message.
	require.NoError(t, s.SetSampleCount(ctx, 20))
	require.Empty(t, s.Validation())
}

func TestState_SetSampleCount_SameValueDoesNotNotify(t *testing.T) {
	s := newTestState(t, nil)

	calls := 0
	_, err := s.Subscribe(FieldSampleCount, func(any) { calls++ })
	require.NoError(t, err)

	require.NoError(t, s.SetSampleCount(context.Background(), 50))
	require.Zero(t, calls)
}

func TestState_TriggerRefresh(t *testing.T) {
	m := &countingMetrics{}
	s := newTestState(t, &Config{Metrics: m})

	fired := 0
	unsubscribe := s.RefreshRef().Subscribe(func() { fired++ })
	defer unsubscribe()

	require.NoError(t, s.TriggerRefresh(context.Background()))
	require.NoError(t, s.TriggerRefresh(context.Background()))

	require.Equal(t, 2, fired)
	require.Equal(t, uint64(2), s.RefreshCount())
	require.Equal(t, 2, m.refreshes)
}

func TestState_SetBusyAndMessage(t *testing.T) {
	s := newTestState(t, nil)

	var busy []any
	_, err := s.Subscribe(FieldBusy, func(v any) { busy = append(busy, v) })
	require.NoError(t, err)

	require.NoError(t, s.loop.Do(context.Background(), func() {
		s.SetBusy(true)
		s.SetMessage("Working")
		s.SetBusy(false)
	}))

	require.False(t, s.Busy())
	require.Equal(t, "Working", s.Message())
	require.Equal(t, []any{true, false}, busy)
}

func TestState_Subscribe_UnknownField(t *testing.T) {
	s := newTestState(t, nil)

	_, err := s.Subscribe("colour", func(any) {})
	require.ErrorIs(t, err, types.ErrUnknownField)
	require.ElementsMatch(t,
		[]string{FieldChartKind, FieldSampleCount, FieldRefresh, FieldBusy, FieldMessage, FieldValidation},
		s.Fields())
}

func TestState_LoopStopped(t *testing.T) {
	loop := reactive.NewLoop(logging.NewNop())
	s, err := New(&Config{Loop: loop})
	require.NoError(t, err)

	require.ErrorIs(t, s.SetChartKind(context.Background(), types.ChartKindBar), types.ErrLoopNotRunning)
	require.Equal(t, types.ChartKindLine, s.ChartKind())
}
