package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/superKazi/awal-lazard/types"
)

func TestPrometheusCollector_Defaults(t *testing.T) {
	p := NewPrometheus(nil, "")

	require.Equal(t, "dashboard", p.namespace)
	require.Equal(t, prometheus.DefaultRegisterer, p.reg)
}

func TestPrometheusCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordRefreshTriggered()
	p.RecordRefreshTriggered()
	p.RecordInvalidParameter("sample_count")
	p.RecordRecompute(2.0, "success")
	p.RecordRecompute(0.5, "stale")
	p.RecordRecompute(0.1, "failure")
	p.RecordDerivation(0.001, types.ChartKindLine, true)
	p.RecordDerivation(0.001, types.ChartKindBar, false)
	p.SetBusy(true)
	p.SetEventClients(2)
	p.RecordEventDropped()
	p.RecordSnapshotPublish(0.003, true)

	require.InDelta(t, 2.0, testutil.ToFloat64(p.refreshes), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(p.invalidParameters.WithLabelValues("sample_count")), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(p.recomputes.WithLabelValues("stale")), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(p.recomputes.WithLabelValues("success")), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(p.derivations.WithLabelValues("bar", "failure")), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(p.busy), 0)
	require.InDelta(t, 2.0, testutil.ToFloat64(p.eventClients), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(p.snapshotPublishes.WithLabelValues("success")), 0)

	p.SetBusy(false)
	require.InDelta(t, 0.0, testutil.ToFloat64(p.busy), 0)

	// Stale results are not part of the latency distribution.
	require.Equal(t, 1, testutil.CollectAndCount(p.recomputeLatency))
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "test_plot_recompute_duration_seconds" {
			require.Equal(t, uint64(2), mf.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
}
