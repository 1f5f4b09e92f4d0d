package sensor_simulator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
	"github.com/LeonardoBeccarini/smartagri/internal/model/messages"
)

const metricsNamespace = "smartagri"

// Metrics are the feed collectors. Build them with NewMetrics.
type Metrics struct {
	Ticks     prometheus.Counter
	Refreshes prometheus.Counter
	Sensors   prometheus.Gauge
	Online    prometheus.Gauge
	Alerts    *prometheus.GaugeVec
	Averages  *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered, which is what tests and one-off commands use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "feed",
			Name:      "ticks_total",
			Help:      "Number of perturbation ticks applied to the reading list.",
		}),
		Refreshes: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "feed",
			Name:      "refreshes_total",
			Help:      "Number of completed refreshes.",
		}),
		Sensors: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "feed",
			Name:      "sensors",
			Help:      "Number of readings currently held.",
		}),
		Online: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "feed",
			Name:      "sensors_online",
			Help:      "Number of readings with status online.",
		}),
		Alerts: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "feed",
			Name:      "alerts_active",
			Help:      "Active alerts by band.",
		}, []string{"band"}),
		Averages: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "feed",
			Name:      "average",
			Help:      "Average value across readings by metric.",
		}, []string{"metric"}),
	}
}

func (m *Metrics) observe(u messages.FeedUpdate) {
	if m == nil {
		return
	}
	switch u.Reason {
	case messages.ReasonTick:
		m.Ticks.Inc()
	case messages.ReasonRefresh:
		m.Refreshes.Inc()
	}
	m.Sensors.Set(float64(u.Summary.Total))
	m.Online.Set(float64(u.Summary.Online))
	m.Averages.WithLabelValues(string(entities.MetricTemperature)).Set(u.Summary.AvgTemperature)
	m.Averages.WithLabelValues(string(entities.MetricHumidity)).Set(u.Summary.AvgHumidity)
	m.Averages.WithLabelValues(string(entities.MetricSoilMoisture)).Set(u.Summary.AvgSoilMoisture)

	var caution, critical int
	for _, a := range u.Alerts {
		switch a.Band {
		case entities.BandCaution:
			caution++
		case entities.BandCritical:
			critical++
		}
	}
	m.Alerts.WithLabelValues(entities.BandCaution.String()).Set(float64(caution))
	m.Alerts.WithLabelValues(entities.BandCritical.String()).Set(float64(critical))
}
