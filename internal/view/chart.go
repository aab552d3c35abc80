package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/superKazi/awal-lazard/chart"
	"github.com/superKazi/awal-lazard/internal/render"
	"github.com/superKazi/awal-lazard/types"
)

// ChartView renders a chart description as inline SVG.
type ChartView struct {
	logger types.Logger
}

// NewChartView creates a chart view.
//
// Parameters:
//   - logger: Logger for drawing errors
func NewChartView(logger types.Logger) *ChartView {
	return &ChartView{logger: logger}
}

type chartData struct {
	Present     bool
	Failed      bool
	Mark        types.ChartKind
	Fingerprint string
	JSON        string
	SVG         template.HTML
}

// Render writes the chart fragment for spec to w.
//
// A nil spec renders an empty container. Drawing errors are logged and
// rendered as a short notice; only write errors are returned.
func (v *ChartView) Render(w io.Writer, spec *types.ChartSpec) error {
	data := v.data(spec)

	if err := templates.ExecuteTemplate(w, "chart", data); err != nil {
		return fmt.Errorf("failed to render chart view: %w", err)
	}

	return nil
}

// HTML renders the chart fragment into a string.
func (v *ChartView) HTML(spec *types.ChartSpec) (template.HTML, error) {
	var buf bytes.Buffer
	if err := v.Render(&buf, spec); err != nil {
		return "", err
	}

	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

func (v *ChartView) data(spec *types.ChartSpec) chartData {
	if spec == nil {
		return chartData{}
	}

	specJSON, err := json.Marshal(spec)
	if err != nil {
		v.logger.Error("failed to encode chart description", "error", err)
		return chartData{Failed: true}
	}

	svg, err := render.Bytes(spec, render.FormatSVG)
	if err != nil {
		v.logger.Error("failed to draw chart", "mark", spec.Mark, "error", err)
		return chartData{Failed: true}
	}

	fp, err := chart.Fingerprint(spec)
	if err != nil {
		v.logger.Warn("failed to fingerprint chart", "error", err)
	}

	return chartData{
		Present:     true,
		Mark:        spec.Mark,
		Fingerprint: fmt.Sprintf("%016x", fp),
		JSON:        string(specJSON),
		SVG:         template.HTML(svg), //nolint:gosec // generated by the renderer, not user input
	}
}
