// Package types provides core type definitions and interfaces shared by the
// dashboard packages.
//
// Keeping these types in a separate package avoids import cycles between the
// root dashboard package and its internal implementations.
//
// Key types:
//   - ChartKind: Mark type selected in the control panel
//   - Dataset / Point: Ordered (date, value) series produced by a DataSource
//   - ChartSpec: Declarative chart description produced by a ChartBuilder
//   - DataSource / ChartBuilder: External collaborators behind one-method interfaces
//   - Logger, MetricsCollector, Hooks: Ambient dependencies
package types
