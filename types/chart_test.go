package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseChartKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ChartKind
		wantErr bool
	}{
		{"line", ChartKindLine, false},
		{"bar", ChartKindBar, false},
		{" BAR ", ChartKindBar, false},
		{"Line", ChartKindLine, false},
		{"pie", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChartKind(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidChartKind)
				require.ErrorIs(t, err, ErrInvalidParameter)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestChartKinds(t *testing.T) {
	kinds := ChartKinds()
	require.Equal(t, []ChartKind{ChartKindLine, ChartKindBar}, kinds)
	for _, k := range kinds {
		require.True(t, k.Valid())
	}
	require.False(t, ChartKind("area").Valid())
}
