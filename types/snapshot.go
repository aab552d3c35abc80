package types

// Snapshot is a consistent view of the dashboard state at one point in time.
type Snapshot struct {
	ChartKind   ChartKind `json:"chartKind"`
	SampleCount int       `json:"sampleCount"`
	Validation  string    `json:"validation,omitempty"`

	// ControlBusy and ControlMessage are the control state's own status
	// fields, fed by the mirrors from the plot state.
	ControlBusy    bool   `json:"controlBusy"`
	ControlMessage string `json:"controlMessage,omitempty"`

	// Busy and Message are the plot state's status.
	Busy       bool       `json:"busy"`
	Message    string     `json:"message,omitempty"`
	Generation uint64     `json:"generation"`
	Dataset    *Dataset   `json:"-"`
	Chart      *ChartSpec `json:"chart,omitempty"`
}
