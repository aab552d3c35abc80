package dashboard

import "github.com/superKazi/awal-lazard/types"

// Sentinel errors re-exported from the types package.
//
// Use errors.Is to match them; parameter errors also match ErrInvalidParameter.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned by operations that need a started App.
	ErrNotStarted = types.ErrNotStarted

	// ErrDataSourceRequired is returned when no data source can be built.
	ErrDataSourceRequired = types.ErrDataSourceRequired

	// ErrInvalidParameter is the class of rejected control parameters.
	ErrInvalidParameter = types.ErrInvalidParameter

	// ErrInvalidSampleCount is returned for a sample count outside 1..max.
	ErrInvalidSampleCount = types.ErrInvalidSampleCount

	// ErrInvalidChartKind is returned for a chart kind other than line or bar.
	ErrInvalidChartKind = types.ErrInvalidChartKind

	// ErrDataSourceFailure wraps data source errors reported by the plot state.
	ErrDataSourceFailure = types.ErrDataSourceFailure

	// ErrRenderFailure wraps chart build and drawing errors.
	ErrRenderFailure = types.ErrRenderFailure

	// ErrUnknownField is returned when subscribing to an unknown field name.
	ErrUnknownField = types.ErrUnknownField

	// ErrLoopNotRunning is returned when work reaches a stopped event loop.
	ErrLoopNotRunning = types.ErrLoopNotRunning
)
