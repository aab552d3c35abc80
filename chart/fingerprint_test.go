package chart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/superKazi/awal-lazard/types"
)

func TestFingerprint(t *testing.T) {
	builder := NewVegaLite()
	ds := testDataset(20)

	line, err := builder.Build(ds, types.ChartKindLine, "t", 600, 400)
	require.NoError(t, err)
	bar, err := builder.Build(ds, types.ChartKindBar, "t", 600, 400)
	require.NoError(t, err)

	fl, err := Fingerprint(line)
	require.NoError(t, err)
	fb, err := Fingerprint(bar)
	require.NoError(t, err)
	require.NotEqual(t, fl, fb)

	zero, err := Fingerprint(nil)
	require.NoError(t, err)
	require.Zero(t, zero)
}

func TestETag(t *testing.T) {
	require.Equal(t, `"00000000000000ff"`, ETag(255))
}

func BenchmarkFingerprint(b *testing.B) {
	spec, err := NewVegaLite().Build(testDataset(1000), types.ChartKindLine, "t", 600, 400)
	require.NoError(b, err)

	for b.Loop() {
		_, _ = Fingerprint(spec)
	}
}
