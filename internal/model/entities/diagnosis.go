package entities

// DiagnosisStatus is the category of a diagnosis record.
type DiagnosisStatus string

const (
	DiagnosisHealthy DiagnosisStatus = "healthy"
	DiagnosisDisease DiagnosisStatus = "disease"
	DiagnosisWarning DiagnosisStatus = "warning"
)

// Valid reports whether s is one of the three known categories.
func (s DiagnosisStatus) Valid() bool {
	switch s {
	case DiagnosisHealthy, DiagnosisDisease, DiagnosisWarning:
		return true
	}
	return false
}

// Band maps the category onto the severity colours.
func (s DiagnosisStatus) Band() Band {
	switch s {
	case DiagnosisHealthy:
		return BandNormal
	case DiagnosisWarning:
		return BandCaution
	case DiagnosisDisease:
		return BandCritical
	default:
		return BandNone
	}
}

// DiagnosisResult is one canned outcome of the mock classifier.
type DiagnosisResult struct {
	Condition  string          `json:"condition" yaml:"condition"`
	Confidence int             `json:"confidence" yaml:"confidence"` // percent, 0..100
	Severity   string          `json:"severity" yaml:"severity"`
	Treatment  string          `json:"treatment" yaml:"treatment"`
	Prevention string          `json:"prevention" yaml:"prevention"`
	Status     DiagnosisStatus `json:"status" yaml:"status"`
}
