package dashboard

import "github.com/superKazi/awal-lazard/types"

// Re-export types from the types package.
//
// The types subpackage lets internal packages share definitions without
// importing the root dashboard package; these aliases keep the convenient
// dashboard.Dataset, dashboard.Logger, etc. for users.
type (
	ChartKind = types.ChartKind
	Point     = types.Point
	Dataset   = types.Dataset
	ChartSpec = types.ChartSpec
	Snapshot  = types.Snapshot
)

// Re-export interfaces from the types package for convenience.
type (
	DataSource       = types.DataSource
	DataSourceFunc   = types.DataSourceFunc
	ChartBuilder     = types.ChartBuilder
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export ChartKind constants.
const (
	ChartKindLine = types.ChartKindLine
	ChartKindBar  = types.ChartKindBar
)

// ParseChartKind parses "line" or "bar".
func ParseChartKind(s string) (ChartKind, error) {
	return types.ParseChartKind(s)
}
