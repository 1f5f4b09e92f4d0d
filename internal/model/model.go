package model

import (
	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
	"github.com/LeonardoBeccarini/smartagri/internal/model/messages"
)

// Alias per esporre tipi comuni ai servizi

type (
	SensorReading      = entities.SensorReading
	SensorStatus       = entities.SensorStatus
	Metric             = entities.Metric
	Band               = entities.Band
	Alert              = entities.Alert
	DiagnosisResult    = entities.DiagnosisResult
	DiagnosisStatus    = entities.DiagnosisStatus
	FeedUpdate         = messages.FeedUpdate
	Summary            = messages.Summary
	DiagnosisCompleted = messages.DiagnosisCompleted
)

const (
	BandNone     = entities.BandNone
	BandNormal   = entities.BandNormal
	BandCaution  = entities.BandCaution
	BandCritical = entities.BandCritical
)
