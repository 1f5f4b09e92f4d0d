package sensor_simulator

import (
	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
)

// metrics that can raise alerts, in display order
var alertMetrics = []entities.Metric{
	entities.MetricSoilMoisture,
	entities.MetricTemperature,
	entities.MetricHumidity,
}

// DetectAlerts derives the active alerts of readings: one per metric value in
// the caution or critical band.
func DetectAlerts(readings []entities.SensorReading) []entities.Alert {
	var out []entities.Alert
	for _, r := range readings {
		for _, m := range alertMetrics {
			v := r.Value(m)
			band := Classify(m, v)
			if band != entities.BandCaution && band != entities.BandCritical {
				continue
			}
			title, detail := describe(m, tooHigh(m, v), r.Location)
			out = append(out, entities.Alert{
				SensorID: r.ID,
				Location: r.Location,
				Metric:   m,
				Value:    v,
				Band:     band,
				Title:    title,
				Detail:   detail,
			})
		}
	}
	return out
}

func describe(m entities.Metric, high bool, location string) (string, string) {
	switch m {
	case entities.MetricTemperature:
		if high {
			return "High Temperature", location + " needs ventilation"
		}
		return "Low Temperature", location + " needs frost protection"
	case entities.MetricHumidity:
		if high {
			return "High Humidity", location + " is at risk of fungal disease"
		}
		return "Low Humidity", location + " needs misting"
	case entities.MetricSoilMoisture:
		if high {
			return "High Soil Moisture", location + " should pause irrigation"
		}
		return "Low Soil Moisture", location + " requires irrigation"
	default:
		return m.Label(), location
	}
}
