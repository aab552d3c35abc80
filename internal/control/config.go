package control

import (
	"errors"
	"fmt"

	"github.com/superKazi/awal-lazard/internal/logging"
	"github.com/superKazi/awal-lazard/internal/metrics"
	"github.com/superKazi/awal-lazard/internal/reactive"
	"github.com/superKazi/awal-lazard/types"
)

// Defaults for optional configuration.
const (
	DefaultChartKind      = types.ChartKindLine
	DefaultSampleCount    = 50
	DefaultMaxSampleCount = 10000
)

// Config holds control state configuration.
//
// Loop is required. Optional fields are set to defaults if zero-valued.
type Config struct {
	// Required dependencies
	Loop *reactive.Loop

	// Optional configuration (with defaults)
	ChartKind      types.ChartKind // Initial chart kind (default: line)
	SampleCount    int             // Initial sample count (default: 50)
	MaxSampleCount int             // Upper bound for sample count (default: 10000)

	// Optional dependencies
	Metrics types.ControlMetrics // Metrics collector (default: no-op)
	Logger  types.Logger         // Logger (default: no-op)
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Loop == nil {
		return errors.New("the Loop is required")
	}
	if c.ChartKind != "" && !c.ChartKind.Valid() {
		return fmt.Errorf("%w: %q", types.ErrInvalidChartKind, c.ChartKind)
	}
	if c.MaxSampleCount < 0 {
		return errors.New("the MaxSampleCount must not be negative")
	}
	if c.SampleCount < 0 || (c.MaxSampleCount > 0 && c.SampleCount > c.MaxSampleCount) {
		return fmt.Errorf("%w: %d", types.ErrInvalidSampleCount, c.SampleCount)
	}

	return nil
}

// SetDefaults applies default values for optional fields.
func (c *Config) SetDefaults() {
	if c.ChartKind == "" {
		c.ChartKind = DefaultChartKind
	}
	if c.MaxSampleCount == 0 {
		c.MaxSampleCount = DefaultMaxSampleCount
	}
	if c.SampleCount == 0 {
		c.SampleCount = min(DefaultSampleCount, c.MaxSampleCount)
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewNop()
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
}
