// Package plot derives the dataset and chart shown by the dashboard.
//
// State reacts to the control parameters through read-only references:
//
//   - A sample count change or refresh event starts a dataset recompute. The
//     data source runs on its own goroutine; its result is posted back to the
//     loop and accepted only if no newer recompute started in the meantime.
//     Superseded recomputes are cancelled through their context.
//   - A dataset or chart kind change derives a new chart description
//     synchronously.
//
// Busy is true exactly while a recompute or a derivation is in flight, so it
// does not flicker between the two phases. Failures keep the last good
// dataset and chart and surface as an "Error: ..." message.
package plot
