package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/superKazi/awal-lazard/types"
)

// BusyText is the warning shown while the dashboard is busy.
const BusyText = "in process..."

// ControlModel is the data drawn by ControlView.
type ControlModel struct {
	Kind           types.ChartKind
	SampleCount    int
	MaxSampleCount int
	Busy           bool
	Message        string
	Validation     string
}

// ControlView renders the control panel.
type ControlView struct {
	showMessage bool
}

// NewControlView creates a control view.
//
// Parameters:
//   - showMessage: Render the mirrored status message under the busy indicator
func NewControlView(showMessage bool) *ControlView {
	return &ControlView{showMessage: showMessage}
}

// ModelFromSnapshot builds the control model for a snapshot. Busy and
// Message come from the control state, not the plot state.
func ModelFromSnapshot(snap *types.Snapshot, maxSampleCount int) ControlModel {
	return ControlModel{
		Kind:           snap.ChartKind,
		SampleCount:    snap.SampleCount,
		MaxSampleCount: maxSampleCount,
		Busy:           snap.ControlBusy,
		Message:        snap.ControlMessage,
		Validation:     snap.Validation,
	}
}

// Render writes the control fragment to w.
func (v *ControlView) Render(w io.Writer, m ControlModel) error {
	message := ""
	if v.showMessage {
		message = m.Message
	}

	data := struct {
		ControlModel
		Kinds    []types.ChartKind
		BusyText string
		Message  string
	}{
		ControlModel: m,
		Kinds:        types.ChartKinds(),
		BusyText:     BusyText,
		Message:      message,
	}

	if err := templates.ExecuteTemplate(w, "control", data); err != nil {
		return fmt.Errorf("failed to render control view: %w", err)
	}

	return nil
}

// HTML renders the control fragment into a string.
func (v *ControlView) HTML(m ControlModel) (template.HTML, error) {
	var buf bytes.Buffer
	if err := v.Render(&buf, m); err != nil {
		return "", err
	}

	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
