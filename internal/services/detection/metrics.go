package detection

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
)

// Metrics are the classifier collectors.
type Metrics struct {
	Started  prometheus.Counter
	Results  *prometheus.CounterVec
	InFlight prometheus.Gauge
}

// NewMetrics registers the collectors on reg; nil leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Started: f.NewCounter(prometheus.CounterOpts{
			Namespace: "smartagri",
			Subsystem: "detection",
			Name:      "analyses_started_total",
			Help:      "Number of mock analyses started.",
		}),
		Results: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartagri",
			Subsystem: "detection",
			Name:      "results_total",
			Help:      "Completed analyses by diagnosis status.",
		}, []string{"status"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "smartagri",
			Subsystem: "detection",
			Name:      "analyses_in_flight",
			Help:      "Analyses waiting for their delay to elapse.",
		}),
	}
}

func (m *Metrics) started() {
	if m == nil {
		return
	}
	m.Started.Inc()
	m.InFlight.Inc()
}

func (m *Metrics) completed(r entities.DiagnosisResult) {
	if m == nil {
		return
	}
	m.InFlight.Dec()
	m.Results.WithLabelValues(string(r.Status)).Inc()
}
