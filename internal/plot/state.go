package plot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/superKazi/awal-lazard/internal/reactive"
	"github.com/superKazi/awal-lazard/types"
)

// Field names accepted by Subscribe.
const (
	FieldDataset = "dataset"
	FieldChart   = "chart"
	FieldBusy    = "busy"
	FieldMessage = "message"
)

// Status messages.
const (
	MessageWorking     = "Working"
	MessageGettingPlot = "Getting plot"
	errorPrefix        = "Error: "
)

// Recompute results reported to metrics.
const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultStale   = "stale"
)

// State owns the dataset and the chart derived from it.
type State struct {
	loop    *reactive.Loop
	source  types.DataSource
	builder types.ChartBuilder
	logger  types.Logger
	metrics types.PlotMetrics
	hooks   *types.Hooks

	title         string
	width, height int

	chartKind   reactive.Ref[types.ChartKind]
	sampleCount reactive.Ref[int]

	dataset *reactive.Field[*types.Dataset]
	chart   *reactive.Field[*types.ChartSpec]
	busy    *reactive.Field[bool]
	message *reactive.Field[string]

	registry *reactive.Registry

	// Loop-owned recompute bookkeeping.
	inflight bool
	deriving bool
	cancel   context.CancelFunc

	generation atomic.Uint64

	errMu   sync.RWMutex
	lastErr error

	ctx       context.Context
	stop      context.CancelFunc
	unsubs    []func()
	closeOnce sync.Once

	// goMu orders wg.Go calls against Close flipping closed, so no
	// goroutine is added once Close has started waiting.
	goMu   sync.Mutex
	closed atomic.Bool
	wg     sync.WaitGroup
}

// New creates a plot state and subscribes it to the control references.
//
// The state starts without a dataset; nothing is computed until the sample
// count changes or refresh fires.
//
// Parameters:
//   - cfg: Plot configuration (required fields must be set)
//
// Returns:
//   - *State: New plot state
//   - error: Validation error if required fields are missing
//
// Example:
//
//	plotState, err := plot.New(&plot.Config{
//	    Loop:        loop,
//	    ChartKind:   controlState.ChartKindRef(),
//	    SampleCount: controlState.SampleCountRef(),
//	    Refresh:     controlState.RefreshRef(),
//	    Source:      source.NewRandomWalk(),
//	    Builder:     chart.NewVegaLite(),
//	})
//	if err != nil {
//	    return err
//	}
//	defer plotState.Close()
func New(cfg *Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.SetDefaults()

	ctx, stop := context.WithCancel(context.Background())
	s := &State{
		loop:        cfg.Loop,
		source:      cfg.Source,
		builder:     cfg.Builder,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		hooks:       cfg.Hooks,
		title:       cfg.Title,
		width:       cfg.Width,
		height:      cfg.Height,
		chartKind:   cfg.ChartKind,
		sampleCount: cfg.SampleCount,
		dataset:     reactive.NewField[*types.Dataset](FieldDataset, nil),
		chart:       reactive.NewField[*types.ChartSpec](FieldChart, nil),
		busy:        reactive.NewField(FieldBusy, false),
		message:     reactive.NewField(FieldMessage, ""),
		ctx:         ctx,
		stop:        stop,
	}
	s.registry = reactive.NewRegistry(s.dataset, s.chart, s.busy, s.message)

	s.unsubs = []func(){
		cfg.SampleCount.Subscribe(func(int) { s.recompute("sample_count") }),
		cfg.Refresh.Subscribe(func() { s.recompute("refresh") }),
		cfg.ChartKind.Subscribe(func(types.ChartKind) { s.derive() }),
		s.dataset.Subscribe(func(*types.Dataset) { s.derive() }),
		s.busy.Subscribe(s.onBusyChanged),
		s.chart.Subscribe(s.onChartChanged),
	}

	return s, nil
}

// Dataset returns the last good dataset, or nil before the first recompute.
func (s *State) Dataset() *types.Dataset { return s.dataset.Get() }

// Chart returns the last good chart description, or nil.
func (s *State) Chart() *types.ChartSpec { return s.chart.Get() }

// Busy reports whether a recompute or derivation is in flight.
func (s *State) Busy() bool { return s.busy.Get() }

// Message returns the status message ("Working", "Getting plot", "Error: ..." or "").
func (s *State) Message() string { return s.message.Get() }

// Generation returns the number of recomputes started so far.
func (s *State) Generation() uint64 { return s.generation.Load() }

// BusyRef returns a read-only reference to the busy flag.
func (s *State) BusyRef() reactive.Ref[bool] { return s.busy.Ref() }

// MessageRef returns a read-only reference to the status message.
func (s *State) MessageRef() reactive.Ref[string] { return s.message.Ref() }

// ChartRef returns a read-only reference to the chart description.
func (s *State) ChartRef() reactive.Ref[*types.ChartSpec] { return s.chart.Ref() }

// LastError returns the error of the last failed recompute or derivation.
//
// It is cleared by the next successful derivation.
func (s *State) LastError() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()

	return s.lastErr
}

// Subscribe registers fn on the named field.
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

// Close cancels in-flight work and detaches from the control references.
//
// Close waits for the data source goroutines and hooks to return. It must
// not be called from the loop goroutine.
func (s *State) Close() {
	s.closeOnce.Do(func() {
		s.goMu.Lock()
		s.closed.Store(true)
		s.goMu.Unlock()

		s.stop()
		for _, unsubscribe := range s.unsubs {
			unsubscribe()
		}
	})
	s.wg.Wait()
}

// recompute starts a new dataset recompute, superseding any in-flight one.
// Runs on the loop.
func (s *State) recompute(reason string) {
	if s.closed.Load() {
		return
	}

	gen := s.generation.Add(1)
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel

	s.inflight = true
	s.updateBusy()
	s.message.Set(MessageWorking)

	n := s.sampleCount.Get()
	start := time.Now()
	s.logger.Debug("dataset recompute started", "generation", gen, "reason", reason, "sample_count", n)

	started := s.spawn(func() {
		ds, err := s.source.Generate(ctx, n)

		postErr := s.loop.Post(func() {
			s.finishRecompute(gen, n, time.Since(start), ds, err)
		})
		if postErr != nil {
			s.logger.Debug("dropping recompute result", "generation", gen, "error", postErr)
		}
	})
	if !started {
		cancel()
	}
}

// finishRecompute applies a recompute result. Runs on the loop.
func (s *State) finishRecompute(gen uint64, n int, elapsed time.Duration, ds *types.Dataset, err error) {
	if gen != s.generation.Load() || s.closed.Load() {
		s.metrics.RecordRecompute(elapsed.Seconds(), resultStale)
		s.logger.Debug("discarding stale recompute result", "generation", gen, "current", s.generation.Load())

		return
	}

	s.cancel()
	s.cancel = nil
	s.inflight = false

	if err == nil {
		if verr := ds.Validate(n); verr != nil {
			err = verr
		}
	}
	if err != nil {
		s.metrics.RecordRecompute(elapsed.Seconds(), resultFailure)
		s.fail(fmt.Errorf("%w: %w", types.ErrDataSourceFailure, err))

		return
	}

	s.metrics.RecordRecompute(elapsed.Seconds(), resultSuccess)
	s.logger.Debug("dataset recompute finished", "generation", gen, "duration", elapsed)

	// Replacing the dataset derives the chart, which settles busy and message.
	if !s.dataset.Set(ds) {
		s.updateBusy()
		s.message.Set("")
	}
}

// derive rebuilds the chart from the current dataset and chart kind.
// Runs on the loop.
func (s *State) derive() {
	ds := s.dataset.Get()
	if ds == nil {
		return
	}
	kind := s.chartKind.Get()

	s.deriving = true
	s.updateBusy()
	s.message.Set(MessageGettingPlot)

	start := time.Now()
	spec, err := s.builder.Build(ds, kind, s.title, s.width, s.height)
	if err == nil && spec == nil {
		err = fmt.Errorf("builder returned no chart for %s", kind)
	}
	s.metrics.RecordDerivation(time.Since(start).Seconds(), kind, err == nil)
	s.deriving = false

	if err != nil {
		s.fail(fmt.Errorf("%w: %w", types.ErrRenderFailure, err))
		return
	}

	s.setLastError(nil)
	s.chart.Set(spec)
	s.updateBusy()
	if s.inflight {
		s.message.Set(MessageWorking)
	} else {
		s.message.Set("")
	}
}

// fail records err and resets busy; dataset and chart keep their last good
// values. Runs on the loop.
func (s *State) fail(err error) {
	s.logger.Warn("plot update failed", "error", err)
	s.setLastError(err)
	s.updateBusy()
	s.message.Set(errorPrefix + err.Error())

	s.runHook(func(ctx context.Context) error { return s.hooks.OnError(ctx, err) }, "OnError")
}

func (s *State) updateBusy() {
	s.busy.Set(s.inflight || s.deriving)
}

func (s *State) setLastError(err error) {
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
}

func (s *State) onBusyChanged(busy bool) {
	s.metrics.SetBusy(busy)
	s.runHook(func(ctx context.Context) error { return s.hooks.OnBusyChanged(ctx, busy) }, "OnBusyChanged")
}

func (s *State) onChartChanged(spec *types.ChartSpec) {
	s.runHook(func(ctx context.Context) error { return s.hooks.OnChartChanged(ctx, spec) }, "OnChartChanged")
}

// runHook calls a hook in the background so it never blocks the loop.
func (s *State) runHook(call func(ctx context.Context) error, name string) {
	s.spawn(func() {
		if err := call(s.ctx); err != nil {
			s.logger.Warn("hook returned error", "hook", name, "error", err)
		}
	})
}

// spawn runs fn on a tracked goroutine unless the state is closed.
// It reports whether fn was started.
func (s *State) spawn(fn func()) bool {
	s.goMu.Lock()
	defer s.goMu.Unlock()

	if s.closed.Load() {
		return false
	}
	s.wg.Go(fn)

	return true
}
