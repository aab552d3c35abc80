package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods are called from the event loop and HTTP goroutines and must be
// thread-safe.
//
// This interface composes smaller, domain-focused interfaces.
type MetricsCollector interface {
	ControlMetrics
	PlotMetrics
	WebMetrics
	SnapshotMetrics
}

// ControlMetrics defines metrics for control panel input.
type ControlMetrics interface {
	// RecordRefreshTriggered records a refresh button press.
	RecordRefreshTriggered()

	// RecordInvalidParameter records a rejected control parameter.
	//
	// Parameters:
	//   - field: Field name ("chart_kind", "sample_count")
	RecordInvalidParameter(field string)
}

// PlotMetrics defines metrics for the dataset recompute and chart derivation.
type PlotMetrics interface {
	// RecordRecompute records a finished dataset recompute.
	//
	// Parameters:
	//   - duration: Time from trigger to result in seconds
	//   - result: "success", "failure" or "stale"
	RecordRecompute(duration float64, result string)

	// RecordDerivation records a chart derivation.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - kind: Chart kind that was derived
	//   - success: true if a chart was produced
	RecordDerivation(duration float64, kind ChartKind, success bool)

	// SetBusy sets the busy gauge (1 while a recompute or derivation is in flight).
	SetBusy(busy bool)
}

// WebMetrics defines metrics for the HTTP surface.
type WebMetrics interface {
	// SetEventClients sets the number of connected server-sent event clients.
	SetEventClients(count int)

	// RecordEventDropped records a state event dropped for a slow client.
	RecordEventDropped()
}

// SnapshotMetrics defines metrics for the snapshot publisher.
type SnapshotMetrics interface {
	// RecordSnapshotPublish records a snapshot publish attempt.
	//
	// Parameters:
	//   - duration: KV put latency in seconds
	//   - success: true if the snapshot was stored
	RecordSnapshotPublish(duration float64, success bool)
}
