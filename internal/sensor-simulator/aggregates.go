package sensor_simulator

import (
	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
	"github.com/LeonardoBeccarini/smartagri/internal/model/messages"
)

// Average returns the mean of metric m over readings rounded to one decimal,
// or 0 for an empty list.
func Average(readings []entities.SensorReading, m entities.Metric) float64 {
	if len(readings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range readings {
		sum += r.Value(m)
	}
	return round1(sum / float64(len(readings)))
}

// OnlineCount counts readings whose status is online.
func OnlineCount(readings []entities.SensorReading) int {
	n := 0
	for _, r := range readings {
		if r.Status == entities.StatusOnline {
			n++
		}
	}
	return n
}

// Summarize computes the overview cards for readings.
func Summarize(readings []entities.SensorReading) messages.Summary {
	return messages.Summary{
		AvgTemperature:  Average(readings, entities.MetricTemperature),
		AvgHumidity:     Average(readings, entities.MetricHumidity),
		AvgSoilMoisture: Average(readings, entities.MetricSoilMoisture),
		Online:          OnlineCount(readings),
		Total:           len(readings),
	}
}

// Field overview shown next to the sensor grid.
const (
	FieldAreaHectares = 12.5
	FieldCoveragePct  = 98
)
