package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the frame metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "kayak").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for frame duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the frame metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the frame duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "kayak",
		// Frames are expected to take well under a display refresh.
		Buckets:  []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.033, 0.1},
		Registry: prometheus.DefaultRegisterer,
	}
}

// FrameSample is what one frame reports to telemetry.
type FrameSample struct {
	Duration time.Duration
	Dirty    int
	Rendered int
	Inserted int
	Removed  int
	Updated  int
	TreeSize int
	Err      error
}

// Metrics holds the Prometheus collectors for the render driver.
type Metrics struct {
	framesTotal   *prometheus.CounterVec
	frameDuration prometheus.Histogram
	changesTotal  *prometheus.CounterVec
	dirtyNodes    prometheus.Histogram
	renderedTotal prometheus.Counter
	treeNodes     prometheus.Gauge
	renderPanics  prometheus.Counter
}

// NewMetrics registers the frame metrics with the configured registry.
// Registering twice with the same registry panics, as promauto does.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		framesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_total",
			Help:        "Total number of frames processed",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		frameDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame_duration_seconds",
			Help:        "Frame processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		changesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "changes_total",
			Help:        "Structural changes merged into the tree, by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		dirtyNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dirty_nodes",
			Help:        "Dirty nodes drained per frame",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 5, 10, 50, 100, 500},
		}),

		renderedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rendered_subtrees_total",
			Help:        "Total number of subtrees re-rendered",
			ConstLabels: config.ConstLabels,
		}),

		treeNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tree_nodes",
			Help:        "Number of nodes in the authoritative tree",
			ConstLabels: config.ConstLabels,
		}),

		renderPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_panics_total",
			Help:        "Total number of widget render panics recovered",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveFrame records one frame.
func (m *Metrics) ObserveFrame(s FrameSample) {
	if m == nil {
		return
	}

	status := "ok"
	switch {
	case s.Err != nil:
		status = "error"
	case s.Dirty == 0:
		status = "idle"
	}
	m.framesTotal.WithLabelValues(status).Inc()
	m.frameDuration.Observe(s.Duration.Seconds())
	m.dirtyNodes.Observe(float64(s.Dirty))
	m.renderedTotal.Add(float64(s.Rendered))
	m.changesTotal.WithLabelValues("insert").Add(float64(s.Inserted))
	m.changesTotal.WithLabelValues("delete").Add(float64(s.Removed))
	m.changesTotal.WithLabelValues("update").Add(float64(s.Updated))
	m.treeNodes.Set(float64(s.TreeSize))
}

// RecordRenderPanic records a recovered widget panic.
func (m *Metrics) RecordRenderPanic() {
	if m == nil {
		return
	}
	m.renderPanics.Inc()
}
