package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("errors.Is works correctly", func(t *testing.T) {
		require.True(t, errors.Is(ErrAlreadyStarted, ErrAlreadyStarted))
		require.False(t, errors.Is(ErrAlreadyStarted, ErrNotStarted))

		wrapped := errors.Join(ErrDataSourceFailure, errors.New("additional context"))
		require.True(t, errors.Is(wrapped, ErrDataSourceFailure))
	})

	t.Run("parameter errors share a class", func(t *testing.T) {
		require.ErrorIs(t, ErrInvalidSampleCount, ErrInvalidParameter)
		require.ErrorIs(t, ErrInvalidChartKind, ErrInvalidParameter)
		require.NotErrorIs(t, ErrInvalidSampleCount, ErrInvalidChartKind)
	})

	t.Run("independent errors are distinct", func(t *testing.T) {
		allErrors := []error{
			ErrInvalidConfig,
			ErrAlreadyStarted,
			ErrNotStarted,
			ErrDataSourceRequired,
			ErrInvalidParameter,
			ErrDataSourceFailure,
			ErrRenderFailure,
			ErrUnknownField,
			ErrLoopNotRunning,
			ErrLoopAlreadyStarted,
		}

		for i, err1 := range allErrors {
			for j, err2 := range allErrors {
				if i == j {
					require.True(t, errors.Is(err1, err2), "error should equal itself: %v", err1)
				} else {
					require.False(t, errors.Is(err1, err2), "errors should be distinct: %v vs %v", err1, err2)
				}
			}
		}
	})
}

func TestIsInvalidParameter(t *testing.T) {
	require.False(t, IsInvalidParameter(nil))
	require.True(t, IsInvalidParameter(ErrInvalidSampleCount))
	require.True(t, IsInvalidParameter(fmt.Errorf("set n=0: %w", ErrInvalidSampleCount)))
	require.True(t, IsInvalidParameter(ErrInvalidChartKind))
	require.False(t, IsInvalidParameter(ErrDataSourceFailure))
	require.False(t, IsInvalidParameter(errors.New("invalid parameter")))
}
