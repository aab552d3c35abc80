package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	chart2 "github.com/wcharczuk/go-chart/v2"

	"github.com/superKazi/awal-lazard/chart"
	"github.com/superKazi/awal-lazard/source"
	"github.com/superKazi/awal-lazard/types"
)

func testSpec(t *testing.T, kind types.ChartKind, n int) *types.ChartSpec {
	t.Helper()

	ds, err := source.NewRandomWalk(source.WithLatency(0), source.WithSeed(11)).Generate(t.Context(), n)
	require.NoError(t, err)

	spec, err := chart.NewVegaLite().Build(ds, kind, "Random Data Plot", 600, 400)
	require.NoError(t, err)

	return spec
}

func TestRender_SVG(t *testing.T) {
	for _, kind := range types.ChartKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			out, err := Bytes(testSpec(t, kind, 50), FormatSVG)
			require.NoError(t, err)
			require.Contains(t, string(out), "<svg")
			require.True(t, strings.HasSuffix(strings.TrimSpace(string(out)), "</svg>"))
			require.Contains(t, string(out), "Random Data Plot")
		})
	}
}

func TestRender_PNG(t *testing.T) {
	for _, kind := range types.ChartKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			out, err := Bytes(testSpec(t, kind, 30), FormatPNG)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			require.Equal(t, 600, img.Bounds().Dx())
			require.Equal(t, 400, img.Bounds().Dy())
		})
	}
}

func TestRender_SinglePoint(t *testing.T) {
	for _, kind := range types.ChartKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			_, err := Bytes(testSpec(t, kind, 1), FormatSVG)
			require.NoError(t, err)
		})
	}
}

func TestRender_Pure(t *testing.T) {
	spec := testSpec(t, types.ChartKindLine, 20)

	a, err := Bytes(spec, FormatSVG)
	require.NoError(t, err)
	b, err := Bytes(spec, FormatSVG)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRender_Errors(t *testing.T) {
	_, err := Bytes(nil, FormatSVG)
	require.ErrorIs(t, err, types.ErrRenderFailure)

	spec := testSpec(t, types.ChartKindLine, 5)
	_, err = Bytes(spec, "gif")
	require.ErrorIs(t, err, types.ErrRenderFailure)

	spec.Mark = "pie"
	_, err = Bytes(spec, FormatSVG)
	require.ErrorIs(t, err, types.ErrRenderFailure)
	require.ErrorIs(t, err, types.ErrInvalidChartKind)
}

func TestFormat_ContentType(t *testing.T) {
	require.Equal(t, "image/svg+xml", FormatSVG.ContentType())
	require.Equal(t, "image/png", FormatPNG.ContentType())
}

func TestValueRange(t *testing.T) {
	require.Nil(t, valueRange([]float64{1, 2}, false))
	require.True(t, valueRange([]float64{1, 2}, false) == nil)

	flat, ok := valueRange([]float64{3, 3}, false).(*chart2.ContinuousRange)
	require.True(t, ok)
	require.InDelta(t, 2.0, flat.Min, 0)
	require.InDelta(t, 4.0, flat.Max, 0)

	withZero, ok := valueRange([]float64{2, 5}, true).(*chart2.ContinuousRange)
	require.True(t, ok)
	require.InDelta(t, 0.0, withZero.Min, 0)
	require.InDelta(t, 5.0, withZero.Max, 0)
}

func TestRender_LineChartVaryingValues(t *testing.T) {
	spec := testSpec(t, types.ChartKindLine, 50)
	values := make(map[float64]struct{})
	for _, p := range spec.Data.Values {
		values[p.Value] = struct{}{}
	}
	require.Greater(t, len(values), 1)

	for _, format := range []Format{FormatSVG, FormatPNG} {
		require.NotPanics(t, func() {
			out, err := Bytes(spec, format)
			require.NoError(t, err)
			require.NotEmpty(t, out)
		})
	}
}
