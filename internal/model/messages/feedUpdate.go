package messages

import (
	"time"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
)

// UpdateReason tells subscribers why the reading list changed.
type UpdateReason string

const (
	ReasonInitialize UpdateReason = "initialize"
	ReasonTick       UpdateReason = "tick"
	ReasonRefresh    UpdateReason = "refresh"
)

// Summary holds the overview cards of the monitoring panel.
type Summary struct {
	AvgTemperature  float64 `json:"avg_temperature"`
	AvgHumidity     float64 `json:"avg_humidity"`
	AvgSoilMoisture float64 `json:"avg_soil_moisture"`
	Online          int     `json:"online"`
	Total           int     `json:"total"`
}

// FeedUpdate is handed to feed subscribers after every change of the list.
type FeedUpdate struct {
	ID        string                   `json:"id"`
	Reason    UpdateReason             `json:"reason"`
	Readings  []entities.SensorReading `json:"readings"`
	Summary   Summary                  `json:"summary"`
	Alerts    []entities.Alert         `json:"alerts"`
	Timestamp time.Time                `json:"timestamp"`
}
