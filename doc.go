// Package dashboard provides a reactive chart dashboard served over HTTP.
//
// A control panel (chart kind, sample count, refresh button) drives an
// asynchronous data-generation step, which drives a chart-derivation step,
// shown in a templated page with a busy indicator.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import "github.com/superKazi/awal-lazard"
//
//	cfg := dashboard.DefaultConfig()
//	app, err := dashboard.NewApp(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := app.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Stop(context.Background())
//
// # Architecture
//
// All state lives on a single event loop:
//
//	ControlState --(chartKind, sampleCount, refresh)--> DataPlotState
//	DataPlotState --(busy, message)--> ControlState
//
// Changing the sample count or firing refresh recomputes the dataset off the
// loop; the result is posted back and accepted only if no newer recompute
// started meanwhile. A new dataset or chart kind derives the chart
// synchronously. The busy flag is true exactly while either phase runs.
//
// # Custom Data Sources
//
// The random walk is a placeholder. Supply real business logic with
// WithDataSource, or serve it over NATS request/reply with source.Responder
// and point the dashboard at it with source.NewNATS:
//
//	src := source.NewNATS(nc, source.WithSubject("series.generate"))
//	app, err := dashboard.NewApp(&cfg, dashboard.WithDataSource(src))
//
// # Observability
//
// Enable metrics.enabled to expose Prometheus metrics, and snapshot.enabled
// with WithKeyValue to publish every new chart to a JetStream KV bucket.
package dashboard
