package analytics

import (
	"fmt"
	"sync"
)

// TimeRange is the window picked in the panel header. It is display state
// only: every range shows the same figures.
type TimeRange string

const (
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range90d TimeRange = "90d"
	Range1y  TimeRange = "1y"

	DefaultTimeRange = Range30d
)

var TimeRanges = []TimeRange{Range7d, Range30d, Range90d, Range1y}

func ParseTimeRange(s string) (TimeRange, error) {
	for _, r := range TimeRanges {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown time range %q (want 7d, 30d, 90d or 1y)", s)
}

// Next returns the range after r, wrapping around.
func (r TimeRange) Next() TimeRange {
	for i, v := range TimeRanges {
		if v == r {
			return TimeRanges[(i+1)%len(TimeRanges)]
		}
	}
	return DefaultTimeRange
}

// Tab groups the charts of the panel.
type Tab string

const (
	TabYield    Tab = "yield"
	TabHealth   Tab = "health"
	TabSensors  Tab = "sensors"
	TabDiseases Tab = "diseases"
)

var Tabs = []Tab{TabYield, TabHealth, TabSensors, TabDiseases}

func (t Tab) Title() string {
	switch t {
	case TabYield:
		return "Yield Analysis"
	case TabHealth:
		return "Crop Health"
	case TabSensors:
		return "Sensor Data"
	case TabDiseases:
		return "Disease Tracking"
	default:
		return string(t)
	}
}

func (t Tab) Next() Tab {
	for i, v := range Tabs {
		if v == t {
			return Tabs[(i+1)%len(Tabs)]
		}
	}
	return TabYield
}

// Panel is the analytics view state.
type Panel struct {
	mu        sync.Mutex
	data      *Datasets
	timeRange TimeRange
	tab       Tab
}

// NewPanel shows data, or the built-in figures when data is nil.
func NewPanel(data *Datasets) *Panel {
	if data == nil {
		data = DefaultDatasets()
	}
	return &Panel{data: data, timeRange: DefaultTimeRange, tab: TabYield}
}

func (p *Panel) Data() *Datasets { return p.data }

func (p *Panel) TimeRange() TimeRange {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timeRange
}

func (p *Panel) SetTimeRange(r TimeRange) error {
	if _, err := ParseTimeRange(string(r)); err != nil {
		return err
	}
	p.mu.Lock()
	p.timeRange = r
	p.mu.Unlock()
	return nil
}

// CycleTimeRange moves to the next range and returns it.
func (p *Panel) CycleTimeRange() TimeRange {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeRange = p.timeRange.Next()
	return p.timeRange
}

func (p *Panel) Tab() Tab {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tab
}

// CycleTab moves to the next tab and returns it.
func (p *Panel) CycleTab() Tab {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tab = p.tab.Next()
	return p.tab
}

// Charts returns the charts shown under tab t.
func (p *Panel) Charts(t Tab) []Chart {
	var out []Chart
	for _, c := range Charts {
		if c.Tab == t {
			out = append(out, c)
		}
	}
	return out
}
