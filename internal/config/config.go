package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kayak-ui/kayak/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "kayak.json"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "kayak"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "kayak"

	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = "localhost:7070"

	// DefaultFrames is the default number of demo frames.
	DefaultFrames = 6

	// DefaultItems is the default number of items in the demo list.
	DefaultItems = 4

	// DefaultInterval is the default delay between inspector demo frames.
	DefaultInterval = "500ms"
)

// Config represents the complete kayak.json configuration.
type Config struct {
	// Debug validates the tree invariants after every frame.
	Debug bool `json:"debug,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Inspect contains inspector server configuration.
	Inspect InspectConfig `json:"inspect,omitempty"`

	// Demo contains settings for the demo widget tree.
	Demo DemoConfig `json:"demo,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Enabled registers frame metrics.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the Prometheus metric namespace.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains tracing settings.
type TracingConfig struct {
	// TracerName is the name passed to the global tracer provider.
	TracerName string `json:"tracerName,omitempty"`
}

// InspectConfig contains inspector server settings.
type InspectConfig struct {
	// Addr is the host:port the inspector listens on.
	Addr string `json:"addr,omitempty"`
}

// DemoConfig contains demo settings.
type DemoConfig struct {
	// Frames is the number of frames the demo command runs.
	Frames int `json:"frames,omitempty"`

	// Items is the initial length of the demo list.
	Items int `json:"items,omitempty"`

	// Interval is the delay between frames when serving the inspector.
	Interval string `json:"interval,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Inspect: InspectConfig{
			Addr: DefaultInspectAddr,
		},
		Demo: DemoConfig{
			Frames:   DefaultFrames,
			Items:    DefaultItems,
			Interval: DefaultInterval,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for kayak.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is like Load but returns the defaults when no kayak.json exists.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("K021").
				WithDetail("No kayak.json found in " + filepath.Dir(path)).
				WithSuggestion("Create kayak.json or run without --config to use defaults")
		}
		return nil, errors.New("K021").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("K021").
			WithDetail("Failed to parse kayak.json: " + err.Error()).
			WithSuggestion("Check that kayak.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("K021").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("K021").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultInspectAddr
	}
	if c.Demo.Frames == 0 {
		c.Demo.Frames = DefaultFrames
	}
	if c.Demo.Items == 0 {
		c.Demo.Items = DefaultItems
	}
	if c.Demo.Interval == "" {
		c.Demo.Interval = DefaultInterval
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("K020").
			WithDetail("log.level must be one of debug, info, warn, error; got " + strconv.Quote(c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("K020").
			WithDetail("log.format must be text or json; got " + strconv.Quote(c.Log.Format))
	}
	if c.Demo.Frames < 0 {
		return errors.New("K020").
			WithDetail("demo.frames must not be negative")
	}
	if c.Demo.Items < 0 {
		return errors.New("K020").
			WithDetail("demo.items must not be negative")
	}
	if d, err := time.ParseDuration(c.Demo.Interval); err != nil || d <= 0 {
		return errors.New("K020").
			WithDetail("demo.interval must be a positive duration; got " + strconv.Quote(c.Demo.Interval))
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// NewLogger builds a slog.Logger writing to w with the configured level and format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// FrameInterval returns the parsed demo interval, or the default on error.
func (c *Config) FrameInterval() time.Duration {
	d, err := time.ParseDuration(c.Demo.Interval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultInterval)
	}
	return d
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindConfigDir walks up directories to find the one holding kayak.json.
func FindConfigDir(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("K021").
				WithDetail("No kayak.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
