package reactive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/superKazi/awal-lazard/types"
)

func TestRegistry_Subscribe(t *testing.T) {
	kind := NewField("chartKind", "line")
	refresh := NewEvent("refresh")
	reg := NewRegistry(kind, refresh)

	require.Equal(t, []string{"chartKind", "refresh"}, reg.Names())

	var got []any
	unsubscribe, err := reg.Subscribe("chartKind", func(v any) { got = append(got, v) })
	require.NoError(t, err)

	_, err = reg.Subscribe("refresh", func(v any) { got = append(got, v) })
	require.NoError(t, err)

	kind.Set("bar")
	refresh.Fire()
	unsubscribe()
	kind.Set("line")

	require.Equal(t, []any{"bar", uint64(1)}, got)
}

func TestRegistry_UnknownField(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Subscribe("nope", func(any) {})
	require.ErrorIs(t, err, types.ErrUnknownField)
}
