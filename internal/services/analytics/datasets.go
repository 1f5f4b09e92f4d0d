// Package analytics serves the static figures of the analytics panel and
// renders them to PNG charts.
package analytics

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
)

//go:embed datasets.yaml
var datasetsYAML []byte

type YieldPoint struct {
	Month    string  `yaml:"month" json:"month"`
	Yield    float64 `yaml:"yield" json:"yield"`
	Target   float64 `yaml:"target" json:"target"`
	Diseases int     `yaml:"diseases" json:"diseases"`
}

type HealthShare struct {
	Name  string  `yaml:"name" json:"name"`
	Value float64 `yaml:"value" json:"value"`
	Color string  `yaml:"color" json:"color"`
}

type HealthScore struct {
	Week  string  `yaml:"week" json:"week"`
	Score float64 `yaml:"score" json:"score"`
}

// TrendPoint is one day of averaged environmental readings.
type TrendPoint struct {
	Date         string  `yaml:"date" json:"date"`
	Temperature  float64 `yaml:"temperature" json:"temperature"`
	Humidity     float64 `yaml:"humidity" json:"humidity"`
	SoilMoisture float64 `yaml:"soil_moisture" json:"soil_moisture"`
}

const dateLayout = "2006-01-02"

// Time parses Date.
func (p TrendPoint) Time() (time.Time, error) {
	return time.Parse(dateLayout, p.Date)
}

// Severity is the tier of a tracked disease.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Band maps Low/Medium/High onto the green/yellow/red colours.
func (s Severity) Band() entities.Band {
	switch s {
	case SeverityLow:
		return entities.BandNormal
	case SeverityMedium:
		return entities.BandCaution
	case SeverityHigh:
		return entities.BandCritical
	default:
		return entities.BandNone
	}
}

type DiseaseCount struct {
	Disease  string   `yaml:"disease" json:"disease"`
	Cases    int      `yaml:"cases" json:"cases"`
	Severity Severity `yaml:"severity" json:"severity"`
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendTarget Trend = "target"
)

// KPI is one of the headline cards.
type KPI struct {
	Title  string `yaml:"title" json:"title"`
	Value  string `yaml:"value" json:"value"`
	Change string `yaml:"change" json:"change"`
	Trend  Trend  `yaml:"trend" json:"trend"`
}

type Insight struct {
	Kind  string `yaml:"kind" json:"kind"`
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

// Datasets is everything the panel shows.
type Datasets struct {
	Yield        []YieldPoint   `yaml:"yield" json:"yield"`
	CropHealth   []HealthShare  `yaml:"crop_health" json:"crop_health"`
	HealthScores []HealthScore  `yaml:"health_scores" json:"health_scores"`
	SensorTrends []TrendPoint   `yaml:"sensor_trends" json:"sensor_trends"`
	Diseases     []DiseaseCount `yaml:"diseases" json:"diseases"`
	KPIs         []KPI          `yaml:"kpis" json:"kpis"`
	Insights     []Insight      `yaml:"insights" json:"insights"`
}

// LoadDatasets parses and checks a datasets document.
func LoadDatasets(data []byte) (*Datasets, error) {
	var ds Datasets
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse datasets: %w", err)
	}
	if len(ds.Yield) == 0 || len(ds.CropHealth) == 0 || len(ds.HealthScores) == 0 ||
		len(ds.SensorTrends) == 0 || len(ds.Diseases) == 0 {
		return nil, fmt.Errorf("datasets: every chart needs at least one row")
	}
	for i, p := range ds.SensorTrends {
		if _, err := p.Time(); err != nil {
			return nil, fmt.Errorf("sensor trend %d: %w", i, err)
		}
	}
	for _, d := range ds.Diseases {
		if d.Severity.Band() == entities.BandNone {
			return nil, fmt.Errorf("disease %s: unknown severity %q", d.Disease, d.Severity)
		}
	}
	return &ds, nil
}

// DefaultDatasets returns the built-in figures.
func DefaultDatasets() *Datasets {
	ds, err := LoadDatasets(datasetsYAML)
	if err != nil {
		panic(err)
	}
	return ds
}
