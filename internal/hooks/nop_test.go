package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/superKazi/awal-lazard/types"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()

	require.NotNil(t, hooks.OnBusyChanged)
	require.NotNil(t, hooks.OnChartChanged)
	require.NotNil(t, hooks.OnError)
}

func TestNopHooks_Callbacks(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	require.NoError(t, hooks.OnBusyChanged(ctx, true))
	require.NoError(t, hooks.OnChartChanged(ctx, &types.ChartSpec{Mark: types.ChartKindBar}))
	require.NoError(t, hooks.OnError(ctx, context.Canceled))
}

func TestFill(t *testing.T) {
	t.Run("nil hooks", func(t *testing.T) {
		filled := Fill(nil)
		require.NotNil(t, filled.OnBusyChanged)
		require.NotNil(t, filled.OnChartChanged)
		require.NotNil(t, filled.OnError)
	})

	t.Run("keeps custom callbacks", func(t *testing.T) {
		custom := errors.New("custom")
		in := &types.Hooks{
			OnError: func(ctx context.Context, err error) error { return custom },
		}

		filled := Fill(in)
		require.ErrorIs(t, filled.OnError(context.Background(), nil), custom)
		require.NoError(t, filled.OnBusyChanged(context.Background(), false))
		require.Nil(t, in.OnBusyChanged, "input must not be mutated")
	})
}
