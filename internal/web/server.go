package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/superKazi/awal-lazard/chart"
	"github.com/superKazi/awal-lazard/internal/logging"
	"github.com/superKazi/awal-lazard/internal/metrics"
	"github.com/superKazi/awal-lazard/internal/render"
	"github.com/superKazi/awal-lazard/internal/view"
	"github.com/superKazi/awal-lazard/types"
)

// FragmentHeader marks requests that want a fragment instead of a redirect.
const FragmentHeader = "X-Dashboard-Fragment"

// Dashboard is the application surface the server drives.
type Dashboard interface {
	Snapshot(ctx context.Context) (*types.Snapshot, error)
	SetChartKind(ctx context.Context, kind types.ChartKind) error
	SetSampleCount(ctx context.Context, n int) error
	Refresh(ctx context.Context) error
}

// StateEvent is the payload of a "state" server-sent event.
type StateEvent struct {
	ChartKind   types.ChartKind `json:"chartKind"`
	SampleCount int             `json:"sampleCount"`
	Busy        bool            `json:"busy"`
	Message     string          `json:"message,omitempty"`
	Validation  string          `json:"validation,omitempty"`
	Generation  uint64          `json:"generation"`
	Fingerprint string          `json:"fingerprint,omitempty"`
}

// Config holds server configuration.
type Config struct {
	// Required dependencies
	Dashboard Dashboard

	// Optional configuration (with defaults)
	Site           string        // Site name (default: "Tesseract")
	Title          string        // Page title (default: "Test")
	MaxSampleCount int           // Upper bound shown on the sample count input (default: 10000)
	ShowMessage    bool          // Render the status message in the control view
	EventBuffer    int           // Events buffered per client (default: 16)
	KeepAlive      time.Duration // Comment sent on idle event streams (default: 15s)
	MetricsPath    string        // Path for MetricsHandler (default: "/metrics")
	MetricsHandler http.Handler  // Metrics exposition handler; nil disables the route

	// Optional dependencies
	Metrics types.WebMetrics // Metrics collector (default: no-op)
	Logger  types.Logger     // Logger (default: no-op)
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Dashboard == nil {
		return errors.New("the Dashboard is required")
	}
	if c.MetricsPath != "" && !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("the MetricsPath must start with '/': %q", c.MetricsPath)
	}

	return nil
}

// SetDefaults applies default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Site == "" {
		c.Site = "Tesseract"
	}
	if c.Title == "" {
		c.Title = "Test"
	}
	if c.MaxSampleCount == 0 {
		c.MaxSampleCount = 10000
	}
	if c.EventBuffer == 0 {
		c.EventBuffer = 16
	}
	if c.KeepAlive == 0 {
		c.KeepAlive = 15 * time.Second
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewNop()
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
}

// Server renders the dashboard and translates requests into state changes.
type Server struct {
	dashboard Dashboard
	logger    types.Logger

	page        *view.Page
	controlView *view.ControlView
	chartView   *view.ChartView

	maxSampleCount int
	keepAlive      time.Duration
	metricsPath    string
	metricsHandler http.Handler

	hub *Hub
}

// NewServer creates a server.
//
// Parameters:
//   - cfg: Server configuration (Dashboard is required)
//
// Returns:
//   - *Server: New server
//   - error: Validation error if the configuration is invalid
func NewServer(cfg *Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.SetDefaults()

	return &Server{
		dashboard:      cfg.Dashboard,
		logger:         cfg.Logger,
		page:           view.NewPage(cfg.Site, cfg.Title),
		controlView:    view.NewControlView(cfg.ShowMessage),
		chartView:      view.NewChartView(cfg.Logger),
		maxSampleCount: cfg.MaxSampleCount,
		keepAlive:      cfg.KeepAlive,
		metricsPath:    cfg.MetricsPath,
		metricsHandler: cfg.MetricsHandler,
		hub:            NewHub(cfg.EventBuffer, cfg.Metrics),
	}, nil
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /fragments/control", s.handleControlFragment)
	mux.HandleFunc("GET /fragments/chart", s.handleChartFragment)
	mux.HandleFunc("POST /control", s.handleControl)
	mux.HandleFunc("POST /refresh", s.handleRefresh)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /chart.json", s.handleChartJSON)
	mux.HandleFunc("GET /chart.svg", s.handleChartImage(render.FormatSVG))
	mux.HandleFunc("GET /chart.png", s.handleChartImage(render.FormatPNG))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metricsHandler != nil {
		mux.Handle("GET "+s.metricsPath, s.metricsHandler)
	}

	return mux
}

// Publish sends a state event to every connected event stream.
func (s *Server) Publish(ev StateEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("failed to encode state event", "error", err)
		return
	}
	s.hub.Publish(data)
}

// EventClients returns the number of connected event streams.
func (s *Server) EventClients() int {
	return s.hub.Clients()
}

// Close disconnects every event stream.
func (s *Server) Close() {
	s.hub.Close()
}

// NewStateEvent builds the event describing snap.
func NewStateEvent(snap *types.Snapshot) StateEvent {
	ev := StateEvent{
		ChartKind:   snap.ChartKind,
		SampleCount: snap.SampleCount,
		Busy:        snap.Busy,
		Message:     snap.Message,
		Validation:  snap.Validation,
		Generation:  snap.Generation,
	}
	if snap.Chart != nil {
		if fp, err := chart.Fingerprint(snap.Chart); err == nil {
			ev.Fingerprint = fmt.Sprintf("%016x", fp)
		}
	}

	return ev
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*types.Snapshot, bool) {
	snap, err := s.dashboard.Snapshot(r.Context())
	if err != nil {
		s.writeStateError(w, err)
		return nil, false
	}

	return snap, true
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	s.renderPage(w, http.StatusOK, view.ModelFromSnapshot(snap, s.maxSampleCount), snap.Chart)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, model view.ControlModel, spec *types.ChartSpec) {
	control, err := s.controlView.HTML(model)
	if err != nil {
		s.writeRenderError(w, err)
		return
	}
	chartHTML, err := s.chartView.HTML(spec)
	if err != nil {
		s.writeRenderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Render(w, control, chartHTML); err != nil {
		s.logger.Warn("failed to write page", "error", err)
	}
}

func (s *Server) handleControlFragment(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	s.renderControl(w, http.StatusOK, view.ModelFromSnapshot(snap, s.maxSampleCount))
}

func (s *Server) renderControl(w http.ResponseWriter, status int, model view.ControlModel) {
	html, err := s.controlView.HTML(model)
	if err != nil {
		s.writeRenderError(w, err)
		return
	}

	writeHTML(w, status, html)
}

func (s *Server) handleChartFragment(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	html, err := s.chartView.HTML(snap.Chart)
	if err != nil {
		s.writeRenderError(w, err)
		return
	}

	writeHTML(w, http.StatusOK, html)
}

// handleControl applies the submitted parameters. The chart kind is applied
// before the sample count; the first rejected value stops processing.
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var applyErr error
	var parseFailure string

	if kind := r.PostFormValue("kind"); kind != "" {
		applyErr = s.dashboard.SetChartKind(ctx, types.ChartKind(strings.ToLower(strings.TrimSpace(kind))))
	}
	if raw := strings.TrimSpace(r.PostFormValue("n")); applyErr == nil && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			applyErr = fmt.Errorf("%w: %q", types.ErrInvalidSampleCount, raw)
			parseFailure = "Sample count must be a whole number"
		} else {
			applyErr = s.dashboard.SetSampleCount(ctx, n)
		}
	}

	if applyErr != nil && !types.IsInvalidParameter(applyErr) {
		s.writeStateError(w, applyErr)
		return
	}

	status := http.StatusOK
	if applyErr != nil {
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusOK && r.Header.Get(FragmentHeader) == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	model := view.ModelFromSnapshot(snap, s.maxSampleCount)
	if parseFailure != "" {
		model.Validation = parseFailure
	}

	if r.Header.Get(FragmentHeader) != "" {
		s.renderControl(w, status, model)
		return
	}
	s.renderPage(w, status, model, snap.Chart)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.dashboard.Refresh(r.Context()); err != nil {
		s.writeStateError(w, err)
		return
	}

	if r.Header.Get(FragmentHeader) != "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	events, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	initial, err := json.Marshal(NewStateEvent(snap))
	if err != nil {
		s.logger.Error("failed to encode state event", "error", err)
		return
	}
	if err := writeEvent(w, initial); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(s.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case data, open := <-events:
			if !open {
				return
			}
			if err := writeEvent(w, data); err != nil {
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *Server) handleChartJSON(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	if snap.Chart == nil {
		http.Error(w, "no chart yet", http.StatusNotFound)
		return
	}

	fp, err := chart.Fingerprint(snap.Chart)
	if err != nil {
		s.writeRenderError(w, err)
		return
	}
	etag := chart.ETag(fp)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, http.StatusOK, snap.Chart, s.logger)
}

func (s *Server) handleChartImage(format render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := s.snapshot(w, r)
		if !ok {
			return
		}
		if snap.Chart == nil {
			http.Error(w, "no chart yet", http.StatusNotFound)
			return
		}

		img, err := render.Bytes(snap.Chart, format)
		if err != nil {
			s.writeRenderError(w, err)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Cache-Control", "no-cache")
		if _, err := w.Write(img); err != nil {
			s.logger.Debug("failed to write chart image", "error", err)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

func (s *Server) writeStateError(w http.ResponseWriter, err error) {
	switch {
	case types.IsInvalidParameter(err):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, types.ErrLoopNotRunning), errors.Is(err, types.ErrNotStarted):
		http.Error(w, "dashboard not running", http.StatusServiceUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
	default:
		s.logger.Error("dashboard request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) writeRenderError(w http.ResponseWriter, err error) {
	s.logger.Error("render failed", "error", err)
	http.Error(w, "render failed", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, status int, html template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

func writeJSON(w http.ResponseWriter, status int, v any, logger types.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode JSON response", "error", err)
	}
}

func writeEvent(w http.ResponseWriter, data []byte) error {
	_, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
	return err
}
