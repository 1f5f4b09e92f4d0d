package sensor_simulator

import (
	"math"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
)

// thresholds of one metric; a value outside [cautionLow, cautionHigh] is
// caution, outside [criticalLow, criticalHigh] critical.
type thresholds struct {
	criticalLow  float64
	cautionLow   float64
	cautionHigh  float64
	criticalHigh float64
}

var bandThresholds = map[entities.Metric]thresholds{
	entities.MetricTemperature:  {criticalLow: 15, cautionLow: 20, cautionHigh: 30, criticalHigh: 35},
	entities.MetricHumidity:     {criticalLow: 30, cautionLow: 40, cautionHigh: 70, criticalHigh: 80},
	entities.MetricSoilMoisture: {criticalLow: 30, cautionLow: 40, cautionHigh: math.Inf(1), criticalHigh: math.Inf(1)},
}

// Classify maps a value of metric m onto its severity band. Metrics without
// thresholds (light, battery) get BandNone.
func Classify(m entities.Metric, v float64) entities.Band {
	t, ok := bandThresholds[m]
	if !ok {
		return entities.BandNone
	}
	switch {
	case v < t.criticalLow || v > t.criticalHigh:
		return entities.BandCritical
	case v < t.cautionLow || v > t.cautionHigh:
		return entities.BandCaution
	default:
		return entities.BandNormal
	}
}

// StatusBand maps a sensor status onto the badge colour.
func StatusBand(s entities.SensorStatus) entities.Band {
	switch s {
	case entities.StatusOnline:
		return entities.BandNormal
	case entities.StatusWarning:
		return entities.BandCaution
	case entities.StatusOffline:
		return entities.BandCritical
	default:
		return entities.BandNone
	}
}

// tooHigh reports whether v breaks the upper caution threshold of m.
func tooHigh(m entities.Metric, v float64) bool {
	t, ok := bandThresholds[m]
	return ok && v > t.cautionHigh
}
