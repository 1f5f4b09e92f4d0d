package detection

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ErrEmptyCatalog is returned when a catalog document holds no entries.
var ErrEmptyCatalog = errors.New("diagnosis catalog is empty")

// LoadCatalog parses a YAML list of diagnosis records and validates it.
func LoadCatalog(data []byte) ([]entities.DiagnosisResult, error) {
	var out []entities.DiagnosisResult
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyCatalog
	}
	for i, r := range out {
		if r.Condition == "" {
			return nil, fmt.Errorf("catalog entry %d: missing condition", i)
		}
		if r.Confidence < 0 || r.Confidence > 100 {
			return nil, fmt.Errorf("catalog entry %d (%s): confidence %d out of range", i, r.Condition, r.Confidence)
		}
		if !r.Status.Valid() {
			return nil, fmt.Errorf("catalog entry %d (%s): unknown status %q", i, r.Condition, r.Status)
		}
	}
	return out, nil
}

// DefaultCatalog returns the built-in three-entry catalog.
func DefaultCatalog() []entities.DiagnosisResult {
	out, err := LoadCatalog(catalogYAML)
	if err != nil {
		// the embedded document is part of the binary
		panic(err)
	}
	return out
}
