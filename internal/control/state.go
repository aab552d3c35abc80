package control

import (
	"context"
	"fmt"

	"github.com/superKazi/awal-lazard/internal/reactive"
	"github.com/superKazi/awal-lazard/types"
)

// Field names accepted by Subscribe.
const (
	FieldChartKind   = "chartKind"
	FieldSampleCount = "sampleCount"
	FieldRefresh     = "refresh"
	FieldBusy        = "busy"
	FieldMessage     = "message"
	FieldValidation  = "validation"
)

// State holds the control panel parameters.
type State struct {
	loop    *reactive.Loop
	logger  types.Logger
	metrics types.ControlMetrics

	maxSampleCount int

	chartKind   *reactive.Field[types.ChartKind]
	sampleCount *reactive.Field[int]
	refresh     *reactive.Event
	busy        *reactive.Field[bool]
	message     *reactive.Field[string]
	validation  *reactive.Field[string]

	registry *reactive.Registry
}

// New creates a control state.
//
// Parameters:
//   - cfg: Control configuration (Loop is required)
//
// Returns:
//   - *State: New control state holding the initial parameters
//   - error: Validation error if the configuration is invalid
func New(cfg *Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.SetDefaults()

	s := &State{
		loop:           cfg.Loop,
		logger:         cfg.Logger,
		metrics:        cfg.Metrics,
		maxSampleCount: cfg.MaxSampleCount,
		chartKind:      reactive.NewField(FieldChartKind, cfg.ChartKind),
		sampleCount:    reactive.NewField(FieldSampleCount, cfg.SampleCount),
		refresh:        reactive.NewEvent(FieldRefresh),
		busy:           reactive.NewField(FieldBusy, false),
		message:        reactive.NewField(FieldMessage, ""),
		validation:     reactive.NewField(FieldValidation, ""),
	}
	s.registry = reactive.NewRegistry(s.chartKind, s.sampleCount, s.refresh, s.busy, s.message, s.validation)

	return s, nil
}

// ChartKind returns the selected chart kind.
func (s *State) ChartKind() types.ChartKind { return s.chartKind.Get() }

// SampleCount returns the selected sample count.
func (s *State) SampleCount() int { return s.sampleCount.Get() }

// MaxSampleCount returns the largest accepted sample count.
func (s *State) MaxSampleCount() int { return s.maxSampleCount }

// RefreshCount returns how often refresh has been triggered.
func (s *State) RefreshCount() uint64 { return s.refresh.Count() }

// Busy returns the mirrored busy flag.
func (s *State) Busy() bool { return s.busy.Get() }

// Message returns the mirrored status message.
func (s *State) Message() string { return s.message.Get() }

// Validation returns the message describing the last rejected input, or "".
func (s *State) Validation() string { return s.validation.Get() }

// ChartKindRef returns a read-only reference to the chart kind.
func (s *State) ChartKindRef() reactive.Ref[types.ChartKind] { return s.chartKind.Ref() }

// SampleCountRef returns a read-only reference to the sample count.
func (s *State) SampleCountRef() reactive.Ref[int] { return s.sampleCount.Ref() }

// RefreshRef returns a read-only reference to the refresh event.
func (s *State) RefreshRef() reactive.EventRef { return s.refresh.Ref() }

// SetChartKind selects the chart kind.
//
// Parameters:
//   - ctx: Context bounding the wait for the event loop
//   - kind: Chart kind ("line" or "bar")
//
// Returns:
//   - error: ErrInvalidChartKind for unknown kinds, loop errors otherwise
func (s *State) SetChartKind(ctx context.Context, kind types.ChartKind) error {
	if !kind.Valid() {
		err := fmt.Errorf("%w: %q", types.ErrInvalidChartKind, kind)
		s.reject(ctx, "chart_kind", err)

		return err
	}

	return s.loop.Do(ctx, func() {
		s.validation.Set("")
		s.chartKind.Set(kind)
	})
}

// SetSampleCount sets the number of samples to generate.
//
// Values outside 1..MaxSampleCount are rejected: the previous value is kept
// and the validation field describes the problem.
//
// Parameters:
//   - ctx: Context bounding the wait for the event loop
//   - n: Sample count
//
// Returns:
//   - error: ErrInvalidSampleCount for out-of-range values, loop errors otherwise
func (s *State) SetSampleCount(ctx context.Context, n int) error {
	if n <= 0 || n > s.maxSampleCount {
		err := fmt.Errorf("%w: %d not in 1..%d", types.ErrInvalidSampleCount, n, s.maxSampleCount)
		s.reject(ctx, "sample_count", err)

		return err
	}

	return s.loop.Do(ctx, func() {
		s.validation.Set("")
		s.sampleCount.Set(n)
	})
}

// TriggerRefresh fires the refresh event.
func (s *State) TriggerRefresh(ctx context.Context) error {
	s.metrics.RecordRefreshTriggered()

	return s.loop.Do(ctx, func() {
		s.refresh.Fire()
	})
}

// SetBusy sets the display busy flag. Must run on the loop.
func (s *State) SetBusy(busy bool) {
	s.busy.Set(busy)
}

// SetMessage sets the display status message. Must run on the loop.
func (s *State) SetMessage(msg string) {
	s.message.Set(msg)
}

// Subscribe registers fn on the named field.
//
// Parameters:
//   - field: One of the Field* names
//   - fn: Callback receiving the new value; runs on the loop
//
// Returns:
//   - func(): Unsubscribe function
//   - error: ErrUnknownField for unknown names
func (s *State) Subscribe(field string, fn func(any)) (func(), error) {
	return s.registry.Subscribe(field, fn)
}

// Fields returns the names accepted by Subscribe.
func (s *State) Fields() []string {
	return s.registry.Names()
}

func (s *State) reject(ctx context.Context, field string, err error) {
	s.metrics.RecordInvalidParameter(field)
	s.logger.Debug("control parameter rejected", "field", field, "error", err)

	if doErr := s.loop.Do(ctx, func() { s.validation.Set(s.validationMessage(field, err)) }); doErr != nil {
		s.logger.Warn("failed to publish validation message", "field", field, "error", doErr)
	}
}

func (s *State) validationMessage(field string, err error) string {
	switch field {
	case "sample_count":
		return fmt.Sprintf("Sample count must be between 1 and %d", s.maxSampleCount)
	case "chart_kind":
		return "Chart type must be line or bar"
	default:
		return err.Error()
	}
}
