package reactive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvent_FireNotifiesEveryTime(t *testing.T) {
	e := NewEvent("refresh")

	calls := 0
	e.Subscribe(func() { calls++ })

	require.Equal(t, uint64(1), e.Fire())
	require.Equal(t, uint64(2), e.Fire())
	require.Equal(t, 2, calls)
	require.Equal(t, uint64(2), e.Count())
}

func TestEvent_Ref(t *testing.T) {
	e := NewEvent("refresh")
	ref := e.Ref()

	calls := 0
	unsubscribe := ref.Subscribe(func() { calls++ })
	e.Fire()
	unsubscribe()
	e.Fire()

	require.Equal(t, "refresh", ref.Name())
	require.Equal(t, uint64(2), ref.Count())
	require.Equal(t, 1, calls)
}
