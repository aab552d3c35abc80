package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/superKazi/awal-lazard/chart"
	"github.com/superKazi/awal-lazard/internal/control"
	"github.com/superKazi/awal-lazard/internal/logging"
	"github.com/superKazi/awal-lazard/internal/metrics"
	"github.com/superKazi/awal-lazard/internal/plot"
	"github.com/superKazi/awal-lazard/internal/reactive"
	"github.com/superKazi/awal-lazard/internal/snapshot"
	"github.com/superKazi/awal-lazard/internal/web"
	"github.com/superKazi/awal-lazard/source"
)

var errSnapshotStore = errors.New("snapshot publishing requires a KeyValue bucket (WithKeyValue)")

// App is the dashboard composition root.
//
// It owns the event loop, the control and plot states, the one-way mirrors
// between them, the HTTP server and the optional snapshot publisher.
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - State changes are serialized on the event loop
//
// An App cannot be restarted after Stop.
type App struct {
	cfg     Config
	logger  Logger
	metrics MetricsCollector

	loop      *reactive.Loop
	control   *control.State
	plot      *plot.State
	server    *web.Server
	publisher *snapshot.Publisher
	handler   http.Handler

	mu         sync.Mutex
	started    bool
	stopped    bool
	unsubs     []func()
	listener   net.Listener
	httpServer *http.Server
	wg         sync.WaitGroup
}

// NewApp creates a dashboard.
//
// The data source defaults to the random walk when cfg.Source.Kind is
// "randomwalk"; a "nats" source must be supplied with WithDataSource.
//
// Parameters:
//   - cfg: Configuration (defaults are applied to zero values)
//   - opts: Optional dependencies (WithLogger, WithMetrics, WithDataSource, ...)
//
// Returns:
//   - *App: New app, not yet started
//   - error: ErrInvalidConfig, ErrDataSourceRequired or a wiring error
//
// Example:
//
//	cfg := dashboard.DefaultConfig()
//	app, err := dashboard.NewApp(&cfg, dashboard.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := app.Start(ctx); err != nil {
//	    return err
//	}
//	defer app.Stop(context.Background())
func NewApp(cfg *Config, opts ...Option) (*App, error) {
	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	cfg.ValidateWithWarnings(o.logger)

	src, err := resolveSource(cfg, o)
	if err != nil {
		return nil, err
	}
	builder := o.builder
	if builder == nil {
		builder = chart.NewVegaLite()
	}
	if cfg.Snapshot.Enabled && o.keyValue == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errSnapshotStore)
	}

	a := &App{cfg: *cfg, logger: o.logger}

	var metricsHandler http.Handler
	a.metrics, metricsHandler = resolveMetrics(cfg, o)

	a.loop = reactive.NewLoop(a.logger)

	// Validate has already checked the kind.
	kind, _ := ParseChartKind(cfg.Dashboard.ChartKind)
	a.control, err = control.New(&control.Config{
		Loop:           a.loop,
		ChartKind:      kind,
		SampleCount:    cfg.Dashboard.SampleCount,
		MaxSampleCount: cfg.Dashboard.MaxSampleCount,
		Metrics:        a.metrics,
		Logger:         a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create control state: %w", err)
	}

	a.plot, err = plot.New(&plot.Config{
		Loop:        a.loop,
		ChartKind:   a.control.ChartKindRef(),
		SampleCount: a.control.SampleCountRef(),
		Refresh:     a.control.RefreshRef(),
		Source:      src,
		Builder:     builder,
		Title:       cfg.Dashboard.ChartTitle,
		Width:       cfg.Dashboard.Width,
		Height:      cfg.Dashboard.Height,
		Metrics:     a.metrics,
		Logger:      a.logger,
		Hooks:       o.hooks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create plot state: %w", err)
	}

	a.server, err = web.NewServer(&web.Config{
		Dashboard:      a,
		Site:           cfg.Dashboard.Site,
		Title:          cfg.Dashboard.Title,
		MaxSampleCount: cfg.Dashboard.MaxSampleCount,
		ShowMessage:    cfg.Dashboard.MirrorMessage,
		EventBuffer:    cfg.Server.EventBuffer,
		KeepAlive:      cfg.Server.KeepAlive,
		MetricsPath:    cfg.Metrics.Path,
		MetricsHandler: metricsHandler,
		Metrics:        a.metrics,
		Logger:         a.logger,
	})
	if err != nil {
		a.plot.Close()
		return nil, fmt.Errorf("failed to create web server: %w", err)
	}
	a.handler = a.server.Handler()

	if cfg.Snapshot.Enabled {
		a.publisher, err = snapshot.New(context.Background(), &snapshot.Config{
			KeyValue: o.keyValue,
			Key:      cfg.Snapshot.Key,
			Metrics:  a.metrics,
			Logger:   a.logger,
		})
		if err != nil {
			a.plot.Close()
			return nil, fmt.Errorf("failed to create snapshot publisher: %w", err)
		}
	}

	return a, nil
}

func resolveSource(cfg *Config, o *appOptions) (DataSource, error) {
	if o.source != nil {
		return o.source, nil
	}

	switch cfg.Source.Kind {
	case SourceRandomWalk:
		return NewRandomWalkSource(cfg.Source), nil
	default:
		// A remote source needs a connection the App does not own.
		return nil, fmt.Errorf("%w: source kind %q needs WithDataSource", ErrDataSourceRequired, cfg.Source.Kind)
	}
}

// NewRandomWalkSource builds the placeholder random walk source from cfg.
func NewRandomWalkSource(cfg SourceConfig) *source.RandomWalk {
	opts := []source.RandomWalkOption{
		source.WithLatency(cfg.Latency),
	}
	if !cfg.Epoch.IsZero() {
		opts = append(opts, source.WithEpoch(cfg.Epoch))
	}
	if cfg.Seed != 0 {
		opts = append(opts, source.WithSeed(cfg.Seed))
	}

	return source.NewRandomWalk(opts...)
}

func resolveMetrics(cfg *Config, o *appOptions) (MetricsCollector, http.Handler) {
	if !cfg.Metrics.Enabled {
		if o.metrics != nil {
			return o.metrics, nil
		}

		return metrics.NewNop(), nil
	}

	if o.metrics != nil {
		return o.metrics, promhttp.Handler()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return metrics.NewPrometheus(reg, cfg.Metrics.Namespace), promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Start runs the event loop, wires the mirrors and starts serving.
//
// Parameters:
//   - ctx: Context for startup; the App keeps running after it ends
//
// Returns:
//   - error: ErrAlreadyStarted, or a listen error
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started || a.stopped {
		return ErrAlreadyStarted
	}

	if err := a.loop.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to start event loop: %w", err)
	}

	if err := a.loop.Do(ctx, a.wire); err != nil {
		a.loop.Stop()
		return fmt.Errorf("failed to wire states: %w", err)
	}

	if a.publisher != nil {
		if err := a.publisher.Start(context.WithoutCancel(ctx)); err != nil {
			a.unwire()
			a.loop.Stop()

			return fmt.Errorf("failed to start snapshot publisher: %w", err)
		}
	}

	if a.cfg.Server.Addr != "" {
		if err := a.listen(ctx); err != nil {
			a.unwire()
			if a.publisher != nil {
				a.publisher.Stop()
			}
			a.loop.Stop()

			return err
		}
	}

	a.started = true
	a.logger.Info("dashboard started",
		"addr", a.addrLocked(),
		"chart_kind", a.control.ChartKind(),
		"sample_count", a.control.SampleCount(),
		"source", a.cfg.Source.Kind,
	)

	if a.cfg.Dashboard.RefreshOnStart {
		if err := a.control.TriggerRefresh(ctx); err != nil {
			a.logger.Warn("initial refresh failed", "error", err)
		}
	}

	return nil
}

// wire installs the mirrors and observers. Runs on the loop.
func (a *App) wire() {
	a.unsubs = append(a.unsubs, reactive.Mirror(a.plot.BusyRef(), a.control.SetBusy))
	if a.cfg.Dashboard.MirrorMessage {
		a.unsubs = append(a.unsubs, reactive.Mirror(a.plot.MessageRef(), a.control.SetMessage))
	}

	observe := func(any) { a.server.Publish(web.NewStateEvent(a.snapshot())) }
	for _, field := range a.control.Fields() {
		if unsubscribe, err := a.control.Subscribe(field, observe); err == nil {
			a.unsubs = append(a.unsubs, unsubscribe)
		}
	}
	for _, field := range []string{plot.FieldChart, plot.FieldMessage} {
		if unsubscribe, err := a.plot.Subscribe(field, observe); err == nil {
			a.unsubs = append(a.unsubs, unsubscribe)
		}
	}

	if a.publisher != nil {
		a.unsubs = append(a.unsubs, a.plot.ChartRef().Subscribe(func(*ChartSpec) {
			a.publisher.Submit(a.snapshot())
		}))
	}
}

func (a *App) unwire() {
	for _, unsubscribe := range a.unsubs {
		unsubscribe()
	}
	a.unsubs = nil
}

func (a *App) listen(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.Server.Addr, err)
	}

	a.listener = ln
	a.httpServer = &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       a.cfg.Server.IdleTimeout,
	}

	a.wg.Go(func() {
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server stopped", "error", err)
		}
	})

	return nil
}

// Stop shuts the server down, cancels in-flight work and stops the loop.
//
// Parameters:
//   - ctx: Context bounding the HTTP shutdown
//
// Returns:
//   - error: ErrNotStarted, or the HTTP shutdown error
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	if !a.started {
		a.mu.Unlock()
		return ErrNotStarted
	}
	a.started = false
	a.stopped = true
	a.mu.Unlock()

	// Event streams never go idle; close them before shutting the server down.
	a.server.Close()

	var shutdownErr error
	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
		shutdownErr = a.httpServer.Shutdown(shutdownCtx)
		cancel()
		a.wg.Wait()
	}

	a.unwire()
	a.plot.Close()
	if a.publisher != nil {
		a.publisher.Stop()
	}
	a.loop.Stop()

	a.logger.Info("dashboard stopped")
	if shutdownErr != nil {
		return fmt.Errorf("http shutdown: %w", shutdownErr)
	}

	return nil
}

// SetChartKind selects the chart kind.
//
// Returns:
//   - error: ErrNotStarted, ErrInvalidChartKind or a loop error
func (a *App) SetChartKind(ctx context.Context, kind ChartKind) error {
	if err := a.ensureStarted(); err != nil {
		return err
	}

	return a.control.SetChartKind(ctx, kind)
}

// SetSampleCount sets the sample count, which recomputes the dataset.
//
// Returns:
//   - error: ErrNotStarted, ErrInvalidSampleCount or a loop error
func (a *App) SetSampleCount(ctx context.Context, n int) error {
	if err := a.ensureStarted(); err != nil {
		return err
	}

	return a.control.SetSampleCount(ctx, n)
}

// Refresh fires the refresh event, which recomputes the dataset.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.ensureStarted(); err != nil {
		return err
	}

	return a.control.TriggerRefresh(ctx)
}

// Snapshot returns a consistent view of both states.
//
// Returns:
//   - *Snapshot: Values read on the event loop
//   - error: ErrNotStarted or a loop error
func (a *App) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := a.ensureStarted(); err != nil {
		return nil, err
	}

	var snap *Snapshot
	if err := a.loop.Do(ctx, func() { snap = a.snapshot() }); err != nil {
		return nil, err
	}

	return snap, nil
}

// LastError returns the most recent data source or render error, nil after
// a successful derivation.
func (a *App) LastError() error {
	return a.plot.LastError()
}

// Handler returns the HTTP handler serving the dashboard.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Addr returns the listen address, or "" when no listener is running.
func (a *App) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.addrLocked()
}

func (a *App) addrLocked() string {
	if a.listener == nil {
		return ""
	}

	return a.listener.Addr().String()
}

func (a *App) ensureStarted() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return ErrNotStarted
	}

	return nil
}

// snapshot reads both states. Runs on the loop.
func (a *App) snapshot() *Snapshot {
	return &Snapshot{
		ChartKind:      a.control.ChartKind(),
		SampleCount:    a.control.SampleCount(),
		Validation:     a.control.Validation(),
		ControlBusy:    a.control.Busy(),
		ControlMessage: a.control.Message(),
		Busy:           a.plot.Busy(),
		Message:        a.plot.Message(),
		Generation:     a.plot.Generation(),
		Dataset:        a.plot.Dataset(),
		Chart:          a.plot.Chart(),
	}
}

// compile-time check that the App satisfies the server's dashboard surface.
var _ web.Dashboard = (*App)(nil)
