package types

import (
	"fmt"
	"strings"
)

// ChartKind is the mark type used to draw a dataset.
type ChartKind string

const (
	// ChartKindLine draws the series as a connected line.
	ChartKindLine ChartKind = "line"

	// ChartKindBar draws one bar per sample.
	ChartKindBar ChartKind = "bar"
)

// ChartKinds returns the selectable chart kinds in display order.
func ChartKinds() []ChartKind {
	return []ChartKind{ChartKindLine, ChartKindBar}
}

// Valid reports whether k is a known chart kind.
func (k ChartKind) Valid() bool {
	return k == ChartKindLine || k == ChartKindBar
}

// String returns the string representation of the chart kind.
func (k ChartKind) String() string {
	return string(k)
}

// ParseChartKind parses a chart kind, ignoring case and surrounding spaces.
//
// Parameters:
//   - s: Chart kind name ("line" or "bar")
//
// Returns:
//   - ChartKind: Parsed kind
//   - error: ErrInvalidChartKind for any other value
func ParseChartKind(s string) (ChartKind, error) {
	k := ChartKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidChartKind, s)
	}

	return k, nil
}

// Channel is one encoding channel of a chart description.
type Channel struct {
	// Field is the dataset column bound to the channel.
	Field string `json:"field"`

	// Type is the Vega-Lite measurement type ("temporal", "quantitative").
	Type string `json:"type"`
}

// Encoding maps dataset columns to the x and y axes.
type Encoding struct {
	X Channel `json:"x"`
	Y Channel `json:"y"`
}

// ChartData carries the inline values of a chart description.
type ChartData struct {
	Values []Point `json:"values"`
}

// ChartSpec is a declarative chart description.
//
// The layout follows a Vega-Lite top-level unit specification so it can be
// handed to a browser-side renderer unchanged. A ChartSpec is treated as
// immutable once published by the plot state.
type ChartSpec struct {
	Schema   string    `json:"$schema"`
	Title    string    `json:"title"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Mark     ChartKind `json:"mark"`
	Encoding Encoding  `json:"encoding"`
	Data     ChartData `json:"data"`
}

// ChartBuilder turns a dataset into a chart description.
//
// This is the chart-rendering collaborator. Implementations must be pure:
// the same inputs always produce equal descriptions.
type ChartBuilder interface {
	// Build creates a chart description.
	//
	// Parameters:
	//   - ds: Dataset to draw (never nil)
	//   - kind: Mark type
	//   - title: Chart title
	//   - width, height: Canvas size in logical units
	//
	// Returns:
	//   - *ChartSpec: New chart description
	//   - error: Build error (reported as ErrRenderFailure by the caller)
	Build(ds *Dataset, kind ChartKind, title string, width, height int) (*ChartSpec, error)
}
