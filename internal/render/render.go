// Package render draws chart descriptions as SVG or PNG images with go-chart.
//
// Line charts become a time series chart, bar charts a bar chart with one bar
// per point. Rendering is a pure function of the description.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/superKazi/awal-lazard/types"
)

// Format is an image output format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ContentType returns the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}

	return "image/svg+xml"
}

const dateLayout = "2006-01-02"

// maxBarLabels bounds the number of labelled bars so labels stay readable.
const maxBarLabels = 10

var seriesColor = drawing.ColorFromHex("4c78a8")

// errNoChart indicates that there is nothing to draw.
var errNoChart = errors.New("no chart to render")

// Render writes spec to w in the given format.
//
// Parameters:
//   - w: Destination
//   - spec: Chart description (must hold at least one point)
//   - format: FormatSVG or FormatPNG
//
// Returns:
//   - error: Wrapped ErrRenderFailure on any drawing error
func Render(w io.Writer, spec *types.ChartSpec, format Format) error {
	if spec == nil || len(spec.Data.Values) == 0 {
		return fmt.Errorf("%w: %w", types.ErrRenderFailure, errNoChart)
	}

	provider := chart.SVG
	switch format {
	case FormatSVG:
	case FormatPNG:
		provider = chart.PNG
	default:
		return fmt.Errorf("%w: unknown format %q", types.ErrRenderFailure, format)
	}

	var err error
	switch spec.Mark {
	case types.ChartKindBar:
		err = barChart(spec).Render(provider, w)
	case types.ChartKindLine:
		err = lineChart(spec).Render(provider, w)
	default:
		err = fmt.Errorf("%w: %q", types.ErrInvalidChartKind, spec.Mark)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrRenderFailure, err)
	}

	return nil
}

// Bytes renders spec into memory.
func Bytes(spec *types.ChartSpec, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, spec, format); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func lineChart(spec *types.ChartSpec) chart.Chart {
	xs := make([]time.Time, len(spec.Data.Values))
	ys := make([]float64, len(spec.Data.Values))
	for i, p := range spec.Data.Values {
		xs[i] = p.Date
		ys[i] = p.Value
	}
	// go-chart rejects a zero-width x range; stretch a single point over a day.
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(24*time.Hour))
		ys = append(ys, ys[0])
	}

	return chart.Chart{
		Title:  spec.Title,
		Width:  spec.Width,
		Height: spec.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           spec.Encoding.X.Field,
			ValueFormatter: chart.TimeValueFormatterWithFormat(dateLayout),
		},
		YAxis: chart.YAxis{
			Name:  spec.Encoding.Y.Field,
			Range: valueRange(ys, false),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    spec.Encoding.Y.Field,
				Style:   chart.Style{StrokeColor: seriesColor, StrokeWidth: 2},
				XValues: xs,
				YValues: ys,
			},
		},
	}
}

func barChart(spec *types.ChartSpec) chart.BarChart {
	n := len(spec.Data.Values)
	labelEvery := max(1, n/maxBarLabels)

	bars := make([]chart.Value, n)
	ys := make([]float64, n)
	for i, p := range spec.Data.Values {
		label := ""
		if i%labelEvery == 0 {
			label = p.Date.Format("Jan 02")
		}
		bars[i] = chart.Value{
			Label: label,
			Value: p.Value,
			Style: chart.Style{FillColor: seriesColor, StrokeColor: seriesColor},
		}
		ys[i] = p.Value
	}

	// Fit all bars into the canvas: two thirds bar, one third gap.
	slot := max(3, (spec.Width-120)/n)
	barWidth := max(2, slot*2/3)

	return chart.BarChart{
		Title:  spec.Title,
		Width:  spec.Width,
		Height: spec.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		BarWidth:     barWidth,
		BarSpacing:   max(1, slot-barWidth),
		UseBaseValue: true,
		BaseValue:    0,
		XAxis:        chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Range: valueRange(ys, true),
		},
		Bars: bars,
	}
}

// valueRange returns an explicit y range when the automatic one would be
// degenerate or must include zero; nil lets go-chart pick.
func valueRange(ys []float64, includeZero bool) chart.Range {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	if includeZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if hi > lo && !includeZero {
		// Must be an untyped nil; a typed nil pointer is a non-nil Range.
		return nil
	}
	if hi <= lo {
		lo, hi = lo-1, hi+1
	}

	return &chart.ContinuousRange{Min: lo, Max: hi}
}
