package plot

import (
	"errors"

	"github.com/superKazi/awal-lazard/internal/hooks"
	"github.com/superKazi/awal-lazard/internal/logging"
	"github.com/superKazi/awal-lazard/internal/metrics"
	"github.com/superKazi/awal-lazard/internal/reactive"
	"github.com/superKazi/awal-lazard/types"
)

// Defaults for the chart canvas.
const (
	DefaultTitle  = "Random Data Plot"
	DefaultWidth  = 600
	DefaultHeight = 400
)

// Config holds plot state configuration.
//
// Required fields must be set before calling New.
// Optional fields will be set to sensible defaults if zero-valued.
type Config struct {
	// Required dependencies
	Loop        *reactive.Loop
	ChartKind   reactive.Ref[types.ChartKind]
	SampleCount reactive.Ref[int]
	Refresh     reactive.EventRef
	Source      types.DataSource
	Builder     types.ChartBuilder

	// Optional configuration (with defaults)
	Title  string // Chart title (default: "Random Data Plot")
	Width  int    // Canvas width (default: 600)
	Height int    // Canvas height (default: 400)

	// Optional dependencies
	Metrics types.PlotMetrics // Metrics collector (default: no-op)
	Logger  types.Logger      // Logger (default: no-op)
	Hooks   *types.Hooks      // Event hooks (default: no-op)
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Loop == nil {
		return errors.New("the Loop is required")
	}
	if c.ChartKind == nil {
		return errors.New("the ChartKind reference is required")
	}
	if c.SampleCount == nil {
		return errors.New("the SampleCount reference is required")
	}
	if c.Refresh == nil {
		return errors.New("the Refresh reference is required")
	}
	if c.Source == nil {
		return types.ErrDataSourceRequired
	}
	if c.Builder == nil {
		return errors.New("the Builder is required")
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.New("the chart size must not be negative")
	}

	return nil
}

// SetDefaults applies default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewNop()
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
	c.Hooks = hooks.Fill(c.Hooks)
}
