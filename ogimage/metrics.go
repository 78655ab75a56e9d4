package ogimage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors of a Generator.
type Metrics struct {
	// RendersTotal counts image requests by kind (post, site) and outcome
	// (rendered, cached, shared, skipped, fallback, failed).
	RendersTotal *prometheus.CounterVec

	// RenderDuration measures layout, vector and raster stages together.
	RenderDuration *prometheus.HistogramVec

	// ErrorsTotal counts pipeline errors by code.
	ErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RendersTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sitegen",
				Subsystem: "ogimage",
				Name:      "renders_total",
				Help:      "Total number of preview image requests",
			},
			[]string{"kind", "outcome"},
		),
		RenderDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sitegen",
				Subsystem: "ogimage",
				Name:      "render_duration_seconds",
				Help:      "Duration of preview image renders in seconds",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"kind"},
		),
		ErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sitegen",
				Subsystem: "ogimage",
				Name:      "errors_total",
				Help:      "Total number of preview image pipeline errors",
			},
			[]string{"code"},
		),
	}
}

func (m *Metrics) record(kind, outcome string) {
	if m == nil {
		return
	}
	m.RendersTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) observe(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.RenderDuration.WithLabelValues(kind).Observe(seconds)
}

func (m *Metrics) recordError(err error) {
	if m == nil {
		return
	}
	code := string(CodeOf(err))
	if code == "" {
		code = "OTHER"
	}
	m.ErrorsTotal.WithLabelValues(code).Inc()
}
