package dashboard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/superKazi/awal-lazard/source"
)

// Source kinds accepted by SourceConfig.Kind.
const (
	SourceRandomWalk = "randomwalk"
	SourceNATS       = "nats"
)

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	// Addr is the listen address. Empty disables the listener; Handler can
	// still be mounted by the caller.
	Addr string `yaml:"addr"`

	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
	IdleTimeout       time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`

	// EventBuffer is the number of state events buffered per event stream
	// before updates to that client are dropped.
	EventBuffer int `yaml:"eventBuffer"`

	// KeepAlive is the idle interval between event stream comments.
	KeepAlive time.Duration `yaml:"keepAlive"`
}

// DashboardConfig controls the page and the initial control values.
type DashboardConfig struct {
	Site       string `yaml:"site"`
	Title      string `yaml:"title"`
	ChartTitle string `yaml:"chartTitle"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`

	ChartKind      string `yaml:"chartKind"`
	SampleCount    int    `yaml:"sampleCount"`
	MaxSampleCount int    `yaml:"maxSampleCount"`

	// RefreshOnStart computes the first chart as soon as the App starts.
	RefreshOnStart bool `yaml:"refreshOnStart"`

	// MirrorMessage forwards the plot status message into the control
	// panel next to the busy indicator.
	MirrorMessage bool `yaml:"mirrorMessage"`
}

// SourceConfig selects and tunes the data source.
type SourceConfig struct {
	// Kind is "randomwalk" (in process) or "nats" (remote generator).
	Kind string `yaml:"kind"`

	// Random walk settings.
	Latency time.Duration `yaml:"latency"`
	Seed    uint64        `yaml:"seed"` // 0 picks a random seed
	Epoch   time.Time     `yaml:"epoch"`

	// Remote generator settings.
	Subject string        `yaml:"subject"`
	Timeout time.Duration `yaml:"timeout"`

	// Serve runs a generator responder backed by the random walk in this
	// process, answering on Subject.
	Serve bool `yaml:"serve"`
}

// NATSConfig controls the NATS connection.
type NATSConfig struct {
	URL string `yaml:"url"`

	// Embedded starts an in-process NATS server with JetStream and ignores URL.
	Embedded bool   `yaml:"embedded"`
	Port     int    `yaml:"port"`
	StoreDir string `yaml:"storeDir"`
}

// SnapshotConfig controls publishing of the latest chart to JetStream KV.
type SnapshotConfig struct {
	Enabled bool          `yaml:"enabled"`
	Bucket  string        `yaml:"bucket"`
	Key     string        `yaml:"key"`
	TTL     time.Duration `yaml:"ttl"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Config is the dashboard configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Source    SourceConfig    `yaml:"source"`
	NATS      NATSConfig      `yaml:"nats"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":5006",
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			EventBuffer:       16,
			KeepAlive:         15 * time.Second,
		},
		Dashboard: DashboardConfig{
			Site:           "Tesseract",
			Title:          "Test",
			ChartTitle:     "Random Data Plot",
			Width:          600,
			Height:         400,
			ChartKind:      string(ChartKindLine),
			SampleCount:    50,
			MaxSampleCount: 10000,
		},
		Source: SourceConfig{
			Kind:    SourceRandomWalk,
			Latency: source.DefaultLatency,
			Epoch:   source.DefaultEpoch,
			Subject: source.DefaultSubject,
			Timeout: source.DefaultTimeout,
		},
		NATS: NATSConfig{
			URL: "nats://127.0.0.1:4222",
		},
		Snapshot: SnapshotConfig{
			Bucket: "dashboard-snapshots",
			Key:    "chart.latest",
			TTL:    time.Hour,
		},
		Metrics: MetricsConfig{
			Path:      "/metrics",
			Namespace: "dashboard",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults fills in missing configuration values with defaults.
//
// Boolean switches are left untouched.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = defaults.Server.ReadHeaderTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaults.Server.IdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if cfg.Server.EventBuffer == 0 {
		cfg.Server.EventBuffer = defaults.Server.EventBuffer
	}
	if cfg.Server.KeepAlive == 0 {
		cfg.Server.KeepAlive = defaults.Server.KeepAlive
	}
	// Note: an empty Server.Addr is valid (no listener), so no default is applied

	d := &cfg.Dashboard
	if d.Site == "" {
		d.Site = defaults.Dashboard.Site
	}
	if d.Title == "" {
		d.Title = defaults.Dashboard.Title
	}
	if d.ChartTitle == "" {
		d.ChartTitle = defaults.Dashboard.ChartTitle
	}
	if d.Width == 0 {
		d.Width = defaults.Dashboard.Width
	}
	if d.Height == 0 {
		d.Height = defaults.Dashboard.Height
	}
	if d.ChartKind == "" {
		d.ChartKind = defaults.Dashboard.ChartKind
	}
	if d.MaxSampleCount == 0 {
		d.MaxSampleCount = defaults.Dashboard.MaxSampleCount
	}
	if d.SampleCount == 0 {
		d.SampleCount = min(defaults.Dashboard.SampleCount, d.MaxSampleCount)
	}

	if cfg.Source.Kind == "" {
		cfg.Source.Kind = defaults.Source.Kind
	}
	if cfg.Source.Latency == 0 {
		cfg.Source.Latency = defaults.Source.Latency
	}
	if cfg.Source.Epoch.IsZero() {
		cfg.Source.Epoch = defaults.Source.Epoch
	}
	if cfg.Source.Subject == "" {
		cfg.Source.Subject = defaults.Source.Subject
	}
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = defaults.Source.Timeout
	}

	if cfg.NATS.URL == "" {
		cfg.NATS.URL = defaults.NATS.URL
	}

	if cfg.Snapshot.Bucket == "" {
		cfg.Snapshot.Bucket = defaults.Snapshot.Bucket
	}
	if cfg.Snapshot.Key == "" {
		cfg.Snapshot.Key = defaults.Snapshot.Key
	}
	if cfg.Snapshot.TTL == 0 {
		cfg.Snapshot.TTL = defaults.Snapshot.TTL
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaults.Metrics.Path
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = defaults.Metrics.Namespace
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
}

// Validate checks configuration constraints.
//
// Hard Validation Rules:
//   - Width, Height > 0
//   - 1 <= SampleCount <= MaxSampleCount
//   - ChartKind is line or bar
//   - Source.Kind is randomwalk or nats
//   - Durations are not negative
//   - Metrics.Path starts with '/'
//
// Returns:
//   - error: Error wrapping ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	d := cfg.Dashboard
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: chart size must be positive, got %dx%d", ErrInvalidConfig, d.Width, d.Height)
	}
	if d.MaxSampleCount <= 0 {
		return fmt.Errorf("%w: maxSampleCount must be > 0, got %d", ErrInvalidConfig, d.MaxSampleCount)
	}
	if d.SampleCount <= 0 || d.SampleCount > d.MaxSampleCount {
		return fmt.Errorf("%w: sampleCount (%d) must be between 1 and maxSampleCount (%d)",
			ErrInvalidConfig, d.SampleCount, d.MaxSampleCount)
	}
	if _, err := ParseChartKind(d.ChartKind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch cfg.Source.Kind {
	case SourceRandomWalk, SourceNATS:
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidConfig, cfg.Source.Kind)
	}

	durations := map[string]time.Duration{
		"server.readHeaderTimeout": cfg.Server.ReadHeaderTimeout,
		"server.idleTimeout":       cfg.Server.IdleTimeout,
		"server.shutdownTimeout":   cfg.Server.ShutdownTimeout,
		"server.keepAlive":         cfg.Server.KeepAlive,
		"source.latency":           cfg.Source.Latency,
		"source.timeout":           cfg.Source.Timeout,
		"snapshot.ttl":             cfg.Snapshot.TTL,
	}
	for name, value := range durations {
		if value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidConfig, name, value)
		}
	}
	if cfg.Server.EventBuffer < 0 {
		return fmt.Errorf("%w: server.eventBuffer must not be negative", ErrInvalidConfig)
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("%w: metrics.path must start with '/', got %q", ErrInvalidConfig, cfg.Metrics.Path)
	}
	if cfg.Snapshot.Enabled && cfg.Snapshot.Key == "" {
		return fmt.Errorf("%w: snapshot.key is required when snapshots are enabled", ErrInvalidConfig)
	}

	return nil
}

// ValidateWithWarnings logs warnings for legal but unusual values.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.Source.Kind == SourceNATS && cfg.Source.Timeout < cfg.Source.Latency {
		logger.Warn(
			"source timeout is shorter than the simulated latency",
			"timeout", cfg.Source.Timeout,
			"latency", cfg.Source.Latency,
		)
	}

	if cfg.Dashboard.MaxSampleCount > 100000 {
		logger.Warn(
			"maxSampleCount is very large, charts may render slowly",
			"maxSampleCount", cfg.Dashboard.MaxSampleCount,
			"recommended", "10000 or lower",
		)
	}

	if cfg.Snapshot.Enabled && cfg.Snapshot.TTL > 0 && cfg.Snapshot.TTL < time.Minute {
		logger.Warn(
			"snapshot TTL is very short, watchers may miss the latest chart",
			"ttl", cfg.Snapshot.TTL,
		)
	}

	if cfg.Server.Addr == "" {
		logger.Warn("server.addr is empty, no HTTP listener will be started")
	}
}

// TestConfig returns a configuration tuned for fast tests.
//
// The random walk has no simulated latency, no listener is started and
// values are seeded for reproducibility.
//
// Returns:
//   - Config: Configuration for tests
//
// Example:
//
//	cfg := dashboard.TestConfig()
//	cfg.Dashboard.SampleCount = 5
//	app, err := dashboard.NewApp(&cfg)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.Server.Addr = ""
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Server.KeepAlive = 100 * time.Millisecond
	cfg.Source.Latency = time.Millisecond
	cfg.Source.Seed = 42
	cfg.Source.Timeout = 2 * time.Second
	cfg.Log.Level = "debug"

	return cfg
}

// LoadConfig reads a YAML configuration file and applies defaults.
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - Config: Loaded configuration with defaults applied
//   - error: Read, parse or validation error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration over DefaultConfig and validates it.
//
// Keys missing from data keep their default values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

