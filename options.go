package dashboard

import "github.com/nats-io/nats.go/jetstream"

// Option configures an App with optional dependencies.
type Option func(*appOptions)

// appOptions holds optional App configuration.
type appOptions struct {
	logger   Logger
	metrics  MetricsCollector
	hooks    *Hooks
	source   DataSource
	builder  ChartBuilder
	keyValue jetstream.KeyValue
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation
//
// Returns:
//   - Option: Functional option for NewApp
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	app, err := dashboard.NewApp(&cfg, dashboard.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *appOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// When set, the metrics endpoint (if enabled) serves the default Prometheus
// gatherer instead of the App's private registry.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewApp
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *appOptions) {
		o.metrics = metrics
	}
}

// WithHooks sets event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewApp
//
// Example:
//
//	hooks := &dashboard.Hooks{
//	    OnChartChanged: func(ctx context.Context, spec *dashboard.ChartSpec) error {
//	        return archive(spec)
//	    },
//	}
//	app, err := dashboard.NewApp(&cfg, dashboard.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *appOptions) {
		o.hooks = hooks
	}
}

// WithDataSource replaces the configured data source.
//
// Parameters:
//   - src: DataSource implementation (the business logic)
//
// Returns:
//   - Option: Functional option for NewApp
//
// Example:
//
//	src := source.NewNATS(nc, source.WithSubject("series.generate"))
//	app, err := dashboard.NewApp(&cfg, dashboard.WithDataSource(src))
func WithDataSource(src DataSource) Option {
	return func(o *appOptions) {
		o.source = src
	}
}

// WithChartBuilder replaces the default Vega-Lite chart builder.
func WithChartBuilder(builder ChartBuilder) Option {
	return func(o *appOptions) {
		o.builder = builder
	}
}

// WithKeyValue sets the JetStream KV bucket used by the snapshot publisher.
//
// Required when snapshot publishing is enabled.
//
// Parameters:
//   - kv: KV bucket, typically from snapshot.EnsureBucket
//
// Returns:
//   - Option: Functional option for NewApp
func WithKeyValue(kv jetstream.KeyValue) Option {
	return func(o *appOptions) {
		o.keyValue = kv
	}
}
