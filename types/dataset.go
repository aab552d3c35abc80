package types

import (
	"context"
	"fmt"
	"time"
)

// Point is one (date, value) sample.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Dataset is an ordered series of points.
//
// Datasets are replaced, never mutated, once handed to the plot state.
type Dataset struct {
	Points []Point `json:"points"`
}

// Len returns the number of points (0 for a nil dataset).
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}

	return len(d.Points)
}

// Dates returns the x values of the dataset.
func (d *Dataset) Dates() []time.Time {
	out := make([]time.Time, d.Len())
	for i := range out {
		out[i] = d.Points[i].Date
	}

	return out
}

// Values returns the y values of the dataset.
func (d *Dataset) Values() []float64 {
	out := make([]float64, d.Len())
	for i := range out {
		out[i] = d.Points[i].Value
	}

	return out
}

// Validate checks that the dataset holds exactly want points with strictly
// increasing dates.
//
// Parameters:
//   - want: Expected number of points
//
// Returns:
//   - error: Description of the first violation, nil if valid
func (d *Dataset) Validate(want int) error {
	if d.Len() != want {
		return fmt.Errorf("dataset has %d points, want %d", d.Len(), want)
	}
	for i := 1; i < len(d.Points); i++ {
		if !d.Points[i].Date.After(d.Points[i-1].Date) {
			return fmt.Errorf("dataset dates not increasing at index %d", i)
		}
	}

	return nil
}

// DataSource produces the dataset for a sample count.
//
// This is the business-logic collaborator. The plot state depends only on
// this signature so a real source can replace the random-walk placeholder.
//
// Implementations should:
//   - Respect context cancellation (the plot state cancels superseded work)
//   - Return exactly sampleCount points with increasing dates
//   - Be safe for concurrent calls
type DataSource interface {
	// Generate returns a new dataset of sampleCount points.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//   - sampleCount: Number of points, always > 0
	//
	// Returns:
	//   - *Dataset: New dataset
	//   - error: Generation error (reported as ErrDataSourceFailure by the caller)
	Generate(ctx context.Context, sampleCount int) (*Dataset, error)
}

// DataSourceFunc adapts a plain function to the DataSource interface.
type DataSourceFunc func(ctx context.Context, sampleCount int) (*Dataset, error)

// Generate calls f(ctx, sampleCount).
func (f DataSourceFunc) Generate(ctx context.Context, sampleCount int) (*Dataset, error) {
	return f(ctx, sampleCount)
}
