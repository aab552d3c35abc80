package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dashboard.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// Components wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Parameter errors wrap ErrInvalidParameter so callers can match either the
// specific error or the whole class.

// App errors - public API errors returned by the composition root.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAlreadyStarted is returned when Start is called on a running app.
	ErrAlreadyStarted = errors.New("app already started")

	// ErrNotStarted is returned when an operation requires a started app.
	ErrNotStarted = errors.New("app not started")

	// ErrDataSourceRequired is returned when no data source is configured.
	ErrDataSourceRequired = errors.New("data source is required")
)

// Parameter errors - surfaced to the control view as validation messages.
var (
	// ErrInvalidParameter is the class of all rejected control parameters.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidSampleCount is returned for a sample count outside 1..max.
	ErrInvalidSampleCount = fmt.Errorf("%w: sample count out of range", ErrInvalidParameter)

	// ErrInvalidChartKind is returned for a chart kind other than line or bar.
	ErrInvalidChartKind = fmt.Errorf("%w: unknown chart kind", ErrInvalidParameter)
)

// Recompute errors - caught locally by the plot state, never fatal.
var (
	// ErrDataSourceFailure wraps any error returned by a DataSource.
	ErrDataSourceFailure = errors.New("data source failure")

	// ErrRenderFailure wraps any error returned while building or drawing a chart.
	ErrRenderFailure = errors.New("render failure")
)

// Reactive plumbing errors.
var (
	// ErrUnknownField is returned when subscribing to a field name that does not exist.
	ErrUnknownField = errors.New("unknown field")

	// ErrLoopNotRunning is returned when work is submitted to a stopped event loop.
	ErrLoopNotRunning = errors.New("event loop not running")

	// ErrLoopAlreadyStarted is returned when Start is called on a running event loop.
	ErrLoopAlreadyStarted = errors.New("event loop already started")
)

// IsInvalidParameter reports whether err was caused by a rejected control parameter.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if err wraps ErrInvalidParameter
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}
