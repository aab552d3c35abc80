// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/superKazi/awal-lazard/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Example:
//
//	app, err := dashboard.NewApp(&cfg, dashboard.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ControlMetrics implementation

// RecordRefreshTriggered discards the refresh metric.
func (n *NopMetrics) RecordRefreshTriggered() {
	// No-op
}

// RecordInvalidParameter discards the invalid parameter metric.
func (n *NopMetrics) RecordInvalidParameter(_ /* field */ string) {
	// No-op
}

// PlotMetrics implementation

// RecordRecompute discards the recompute metric.
func (n *NopMetrics) RecordRecompute(_ /* duration */ float64, _ /* result */ string) {
	// No-op
}

// RecordDerivation discards the derivation metric.
func (n *NopMetrics) RecordDerivation(_ /* duration */ float64, _ /* kind */ types.ChartKind, _ /* success */ bool) {
	// No-op
}

// SetBusy discards the busy gauge.
func (n *NopMetrics) SetBusy(_ /* busy */ bool) {
	// No-op
}

// WebMetrics implementation

// SetEventClients discards the event client gauge.
func (n *NopMetrics) SetEventClients(_ /* count */ int) {
	// No-op
}

// RecordEventDropped discards the dropped event metric.
func (n *NopMetrics) RecordEventDropped() {
	// No-op
}

// SnapshotMetrics implementation

// RecordSnapshotPublish discards the snapshot publish metric.
func (n *NopMetrics) RecordSnapshotPublish(_ /* duration */ float64, _ /* success */ bool) {
	// No-op
}
