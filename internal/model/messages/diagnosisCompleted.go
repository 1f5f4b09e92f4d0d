package messages

import (
	"time"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
)

// DiagnosisCompleted is published by the classifier when an analysis ends.
type DiagnosisCompleted struct {
	JobID     string                   `json:"job_id"`
	ImageName string                   `json:"image_name"`
	Result    entities.DiagnosisResult `json:"result"`
	StartedAt time.Time                `json:"started_at"`
	Timestamp time.Time                `json:"timestamp"`
}
