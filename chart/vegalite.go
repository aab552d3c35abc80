package chart

import (
	"fmt"
	"slices"

	"github.com/superKazi/awal-lazard/types"
)

// SchemaVegaLiteV5 is the schema URL stamped on Vega-Lite descriptions.
const SchemaVegaLiteV5 = "https://vega.github.io/schema/vega-lite/v5.json"

// Column names and measurement types used by the encoding.
const (
	FieldDate  = "date"
	FieldValue = "value"

	TypeTemporal     = "temporal"
	TypeQuantitative = "quantitative"
)

// VegaLite builds Vega-Lite unit specifications.
type VegaLite struct {
	schema string
}

var _ types.ChartBuilder = (*VegaLite)(nil)

// VegaLiteOption configures a VegaLite builder.
type VegaLiteOption func(*VegaLite)

// NewVegaLite creates a new Vega-Lite chart builder.
//
// Parameters:
//   - opts: Optional configuration (WithSchema)
//
// Returns:
//   - *VegaLite: Initialized builder
//
// Example:
//
//	builder := chart.NewVegaLite()
//	spec, err := builder.Build(ds, types.ChartKindBar, "Random Data Plot", 600, 400)
func NewVegaLite(opts ...VegaLiteOption) *VegaLite {
	v := &VegaLite{schema: SchemaVegaLiteV5}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// WithSchema overrides the $schema URL of the produced descriptions.
//
// Parameters:
//   - url: Schema URL
//
// Returns:
//   - VegaLiteOption: Configuration option
func WithSchema(url string) VegaLiteOption {
	return func(v *VegaLite) {
		v.schema = url
	}
}

// Build creates a chart description for ds.
//
// The description holds its own copy of the points, so later changes to ds
// never leak into a published chart.
//
// Parameters:
//   - ds: Dataset to draw
//   - kind: Mark type (line or bar)
//   - title: Chart title
//   - width, height: Canvas size in logical units
//
// Returns:
//   - *types.ChartSpec: New chart description
//   - error: ErrNoDataset, ErrInvalidChartKind or ErrInvalidSize
func (v *VegaLite) Build(ds *types.Dataset, kind types.ChartKind, title string, width, height int) (*types.ChartSpec, error) {
	if ds == nil {
		return nil, ErrNoDataset
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidChartKind, kind)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	return &types.ChartSpec{
		Schema: v.schema,
		Title:  title,
		Width:  width,
		Height: height,
		Mark:   kind,
		Encoding: types.Encoding{
			X: types.Channel{Field: FieldDate, Type: TypeTemporal},
			Y: types.Channel{Field: FieldValue, Type: TypeQuantitative},
		},
		Data: types.ChartData{Values: slices.Clone(ds.Points)},
	}, nil
}
