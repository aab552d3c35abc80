// Package source provides built-in data source implementations.
//
// Data sources produce the dataset the dashboard plots. The package includes:
//
//   - RandomWalk: Placeholder generator (cumulative sum of standard normal
//     draws, one point per day) with a simulated latency
//   - NATS: Request/reply client delegating generation to a remote service
//   - Responder: Serves the request/reply subject from any local data source
//
// NATS and Responder together let the business logic run as its own service:
//
//	// generator process
//	responder := source.NewResponder(nc, mySource)
//	_ = responder.Start(ctx)
//	defer responder.Stop()
//
//	// dashboard process
//	app, _ := dashboard.NewApp(cfg, dashboard.WithDataSource(source.NewNATS(nc)))
//
// Custom sources can be implemented by satisfying the types.DataSource interface.
package source
