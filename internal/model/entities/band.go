package entities

import "fmt"

// Band is the three-tier severity colour of a displayed value. BandNone is
// used for values that are not classified.
type Band int

const (
	BandNone Band = iota
	BandNormal
	BandCaution
	BandCritical
)

func (b Band) String() string {
	switch b {
	case BandNormal:
		return "normal"
	case BandCaution:
		return "caution"
	case BandCritical:
		return "critical"
	default:
		return "none"
	}
}

// MarshalText encodes the band by name so JSON output reads "caution" rather
// than a number.
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Band) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*b = BandNone
	case "normal":
		*b = BandNormal
	case "caution":
		*b = BandCaution
	case "critical":
		*b = BandCritical
	default:
		return fmt.Errorf("unknown band %q", text)
	}
	return nil
}

// Alert is a derived notice raised for a reading whose value sits in the
// caution or critical band.
type Alert struct {
	SensorID string  `json:"sensor_id"`
	Location string  `json:"location"`
	Metric   Metric  `json:"metric"`
	Value    float64 `json:"value"`
	Band     Band    `json:"band"`
	Title    string  `json:"title"`
	Detail   string  `json:"detail"`
}

// Key identifies an alert independently of its value.
func (a Alert) Key() string {
	return a.SensorID + "|" + string(a.Metric) + "|" + a.Band.String() + "|" + a.Title
}
