package entities

import "time"

// SensorStatus is the connectivity state shown on a sensor badge.
type SensorStatus string

const (
	StatusOnline  SensorStatus = "online"
	StatusOffline SensorStatus = "offline"
	StatusWarning SensorStatus = "warning"
)

// Metric names one numeric field of a reading.
type Metric string

const (
	MetricTemperature  Metric = "temperature"
	MetricHumidity     Metric = "humidity"
	MetricSoilMoisture Metric = "soilMoisture"
	MetricLightLevel   Metric = "lightLevel"
	MetricBatteryLevel Metric = "batteryLevel"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{
	MetricTemperature,
	MetricHumidity,
	MetricSoilMoisture,
	MetricLightLevel,
	MetricBatteryLevel,
}

// Unit returns the display unit of the metric.
func (m Metric) Unit() string {
	if m == MetricTemperature {
		return "°C"
	}
	return "%"
}

// Label returns a human readable name.
func (m Metric) Label() string {
	switch m {
	case MetricTemperature:
		return "Temperature"
	case MetricHumidity:
		return "Humidity"
	case MetricSoilMoisture:
		return "Soil Moisture"
	case MetricLightLevel:
		return "Light"
	case MetricBatteryLevel:
		return "Battery"
	default:
		return string(m)
	}
}

// SensorReading is one simulated field sensor.
type SensorReading struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Location     string       `json:"location"`
	Temperature  float64      `json:"temperature"`   // °C
	Humidity     float64      `json:"humidity"`      // %
	SoilMoisture float64      `json:"soil_moisture"` // %
	LightLevel   float64      `json:"light_level"`   // %
	BatteryLevel float64      `json:"battery_level"` // %
	Status       SensorStatus `json:"status"`
	LastUpdate   time.Time    `json:"last_update"`
}

// Value returns the reading's value for metric m.
func (r SensorReading) Value(m Metric) float64 {
	switch m {
	case MetricTemperature:
		return r.Temperature
	case MetricHumidity:
		return r.Humidity
	case MetricSoilMoisture:
		return r.SoilMoisture
	case MetricLightLevel:
		return r.LightLevel
	case MetricBatteryLevel:
		return r.BatteryLevel
	default:
		return 0
	}
}
