package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dashtest "github.com/superKazi/awal-lazard/testing"
	"github.com/superKazi/awal-lazard/types"
)

func TestNATS_RoundTrip(t *testing.T) {
	_, nc := dashtest.StartEmbeddedNATS(t)
	ctx := context.Background()

	responder := NewResponder(nc, NewRandomWalk(WithLatency(0), WithSeed(3)), WithLogger(dashtest.NewTestLogger(t)))
	require.NoError(t, responder.Start(ctx))
	defer responder.Stop()

	client := NewNATS(nc, WithTimeout(2*time.Second))
	require.Equal(t, DefaultSubject, client.Subject())

	ds, err := client.Generate(ctx, 25)
	require.NoError(t, err)
	require.NoError(t, ds.Validate(25))

	want, err := NewRandomWalk(WithLatency(0), WithSeed(3)).Generate(ctx, 25)
	require.NoError(t, err)
	require.Equal(t, want.Values(), ds.Values())
	for i := range want.Points {
		require.True(t, want.Points[i].Date.Equal(ds.Points[i].Date))
	}
}

func TestNATS_CustomSubject(t *testing.T) {
	_, nc := dashtest.StartEmbeddedNATS(t)
	ctx := context.Background()

	responder := NewResponder(nc, NewRandomWalk(WithLatency(0)), WithSubject("custom.generate"))
	require.NoError(t, responder.Start(ctx))
	defer responder.Stop()

	ds, err := NewNATS(nc, WithSubject("custom.generate")).Generate(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len())
}

func TestNATS_NoGenerator(t *testing.T) {
	_, nc := dashtest.StartEmbeddedNATS(t)

	_, err := NewNATS(nc, WithTimeout(time.Second)).Generate(context.Background(), 5)
	require.ErrorIs(t, err, ErrNoGenerator)
}

func TestNATS_RemoteError(t *testing.T) {
	_, nc := dashtest.StartEmbeddedNATS(t)
	ctx := context.Background()

	failing := types.DataSourceFunc(func(context.Context, int) (*types.Dataset, error) {
		return nil, errors.New("warehouse offline")
	})
	responder := NewResponder(nc, failing)
	require.NoError(t, responder.Start(ctx))
	defer responder.Stop()

	_, err := NewNATS(nc).Generate(ctx, 5)
	require.ErrorIs(t, err, ErrRemoteGenerator)
	require.ErrorContains(t, err, "warehouse offline")
}

func TestNATS_InvalidSampleCount(t *testing.T) {
	_, nc := dashtest.StartEmbeddedNATS(t)

	_, err := NewNATS(nc).Generate(context.Background(), 0)
	require.ErrorIs(t, err, types.ErrInvalidSampleCount)
}

func TestNATS_ContextCancel(t *testing.T) {
	_, nc := dashtest.StartEmbeddedNATS(t)

	responder := NewResponder(nc, NewRandomWalk(WithLatency(time.Minute)))
	require.NoError(t, responder.Start(context.Background()))
	defer responder.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewNATS(nc).Generate(ctx, 5)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResponder_StartTwice(t *testing.T) {
	_, nc := dashtest.StartEmbeddedNATS(t)

	responder := NewResponder(nc, NewRandomWalk(WithLatency(0)))
	require.NoError(t, responder.Start(context.Background()))
	require.ErrorIs(t, responder.Start(context.Background()), ErrResponderStarted)

	responder.Stop()
	responder.Stop()
}
