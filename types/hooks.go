package types

import "context"

// Hooks defines callbacks for dashboard events.
//
// All hooks are optional and called asynchronously in background goroutines
// so they never block the event loop. Hooks receive the app's lifecycle
// context which is cancelled during shutdown.
//
// Hook execution behavior:
//   - Hooks run concurrently and may not complete before Stop() returns
//   - Hook errors are logged but don't affect the dashboard state
//
// Example:
//
//	hooks := &dashboard.Hooks{
//	    OnChartChanged: func(ctx context.Context, spec *dashboard.ChartSpec) error {
//	        return archive(ctx, spec)
//	    },
//	}
type Hooks struct {
	// OnBusyChanged is called when the plot state's busy flag flips.
	OnBusyChanged func(ctx context.Context, busy bool) error

	// OnChartChanged is called when a new chart description is published.
	OnChartChanged func(ctx context.Context, spec *ChartSpec) error

	// OnError is called when a recompute or chart derivation fails.
	OnError func(ctx context.Context, err error) error
}
