// Package chart provides built-in chart builder implementations.
//
// A chart builder turns a dataset into a declarative chart description. The
// package includes:
//
//   - VegaLite: Vega-Lite v5 unit specification with a bar or line mark,
//     date on the x axis (temporal) and value on the y axis (quantitative)
//
// Builders are pure: the same dataset, kind, title and size always produce
// equal descriptions. Fingerprint hashes a description so callers can detect
// changes cheaply (the web layer uses it as an ETag).
//
// Custom builders can be implemented by satisfying the types.ChartBuilder interface.
package chart
