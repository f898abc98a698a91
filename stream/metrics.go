package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts engine and streamer activity.
type Metrics struct {
	Started   prometheus.Counter
	Completed prometheus.Counter
	Active    prometheus.Gauge
	Frames    prometheus.Counter
	Errors    *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Started: f.NewCounter(prometheus.CounterOpts{
			Name: "ledmod_animations_started_total",
			Help: "Transitions handed to the engine.",
		}),
		Completed: f.NewCounter(prometheus.CounterOpts{
			Name: "ledmod_animations_completed_total",
			Help: "Transitions that finished and fired their completion.",
		}),
		Active: f.NewGauge(prometheus.GaugeOpts{
			Name: "ledmod_animations_active",
			Help: "Transitions currently in flight.",
		}),
		Frames: f.NewCounter(prometheus.CounterOpts{
			Name: "ledmod_frames_published_total",
			Help: "Frames published to the stream topic.",
		}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledmod_errors_total",
			Help: "Errors by source.",
		}, []string{"source"}),
	}
}
