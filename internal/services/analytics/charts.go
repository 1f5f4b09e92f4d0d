package analytics

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
)

type ChartID string

const (
	ChartYieldVsTarget   ChartID = "yield-vs-target"
	ChartDiseaseImpact   ChartID = "disease-impact"
	ChartCropHealth      ChartID = "crop-health"
	ChartHealthScore     ChartID = "health-score"
	ChartEnvironment     ChartID = "environment"
	ChartDiseaseTracking ChartID = "disease-tracking"
)

// Chart describes one card of the panel.
type Chart struct {
	ID          ChartID
	Title       string
	Description string
	Tab         Tab
}

// Charts lists every chart in display order.
var Charts = []Chart{
	{ChartYieldVsTarget, "Yield vs Target", "Monthly yield performance compared to targets", TabYield},
	{ChartDiseaseImpact, "Disease Impact on Yield", "Correlation between disease cases and yield", TabYield},
	{ChartCropHealth, "Overall Crop Health", "Distribution of crop health status across fields", TabHealth},
	{ChartHealthScore, "Health Score Trends", "Weekly crop health score progression", TabHealth},
	{ChartEnvironment, "Environmental Conditions", "7-day trend of key environmental parameters", TabSensors},
	{ChartDiseaseTracking, "Disease Detection Summary", "Most common diseases detected and their severity levels", TabDiseases},
}

// LookupChart finds a chart by id.
func LookupChart(id ChartID) (Chart, bool) {
	for _, c := range Charts {
		if c.ID == id {
			return c, true
		}
	}
	return Chart{}, false
}

const (
	chartWidth  = 800
	chartHeight = 400
)

var (
	colorGreen = hexColor("#22c55e")
	colorAmber = hexColor("#f59e0b")
	colorRed   = hexColor("#ef4444")
	colorBlue  = hexColor("#3b82f6")
	colorSlate = hexColor("#94a3b8")
)

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

// BandColor is the chart colour of a severity band.
func BandColor(b entities.Band) drawing.Color {
	switch b {
	case entities.BandNormal:
		return colorGreen
	case entities.BandCaution:
		return colorAmber
	case entities.BandCritical:
		return colorRed
	default:
		return colorSlate
	}
}

func lineStyle(c drawing.Color) chart.Style {
	return chart.Style{StrokeColor: c, StrokeWidth: 3}
}

func areaStyle(c drawing.Color, alpha uint8) chart.Style {
	return chart.Style{StrokeColor: c, StrokeWidth: 2, FillColor: c.WithAlpha(alpha)}
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

// categoryAxis places labels at x = 1..n.
func categoryAxis(name string, labels []string) ([]float64, chart.XAxis) {
	xs := make([]float64, len(labels))
	ticks := make([]chart.Tick, len(labels))
	for i, l := range labels {
		xs[i] = float64(i + 1)
		ticks[i] = chart.Tick{Value: xs[i], Label: l}
	}
	return xs, chart.XAxis{Name: name, Ticks: ticks}
}

// Render writes chart id as a PNG to w.
func Render(w io.Writer, ds *Datasets, id ChartID) error {
	c, ok := LookupChart(id)
	if !ok {
		return fmt.Errorf("unknown chart %q", id)
	}
	var err error
	switch id {
	case ChartYieldVsTarget:
		err = renderYieldVsTarget(w, ds, c.Title)
	case ChartDiseaseImpact:
		err = renderDiseaseImpact(w, ds, c.Title)
	case ChartCropHealth:
		err = renderCropHealth(w, ds, c.Title)
	case ChartHealthScore:
		err = renderHealthScore(w, ds, c.Title)
	case ChartEnvironment:
		err = renderEnvironment(w, ds, c.Title)
	case ChartDiseaseTracking:
		err = renderDiseaseTracking(w, ds, c.Title)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", id, err)
	}
	return nil
}

// RenderAll writes every chart to dir as <id>.png and returns the paths.
func RenderAll(dir string, ds *Datasets) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(Charts))
	for _, c := range Charts {
		var buf bytes.Buffer
		if err := Render(&buf, ds, c.ID); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, string(c.ID)+".png")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func renderYieldVsTarget(w io.Writer, ds *Datasets, title string) error {
	months := make([]string, len(ds.Yield))
	yields := make([]float64, len(ds.Yield))
	targets := make([]float64, len(ds.Yield))
	for i, p := range ds.Yield {
		months[i], yields[i], targets[i] = p.Month, p.Yield, p.Target
	}
	xs, xAxis := categoryAxis("Month", months)

	ch := chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: background(),
		XAxis:      xAxis,
		YAxis:      chart.YAxis{Name: "kg"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Target", XValues: xs, YValues: targets, Style: areaStyle(colorSlate, 76)},
			chart.ContinuousSeries{Name: "Yield", XValues: xs, YValues: yields, Style: areaStyle(colorGreen, 153)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

func renderDiseaseImpact(w io.Writer, ds *Datasets, title string) error {
	months := make([]string, len(ds.Yield))
	yields := make([]float64, len(ds.Yield))
	cases := make([]float64, len(ds.Yield))
	for i, p := range ds.Yield {
		months[i], yields[i], cases[i] = p.Month, p.Yield, float64(p.Diseases)
	}
	xs, xAxis := categoryAxis("Month", months)

	ch := chart.Chart{
		Title:          title,
		Width:          chartWidth,
		Height:         chartHeight,
		Background:     background(),
		XAxis:          xAxis,
		YAxis:          chart.YAxis{Name: "kg"},
		YAxisSecondary: chart.YAxis{Name: "cases"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Yield", XValues: xs, YValues: yields, Style: lineStyle(colorGreen)},
			chart.ContinuousSeries{Name: "Diseases", XValues: xs, YValues: cases, YAxis: chart.YAxisSecondary, Style: areaStyle(colorAmber, 153)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

func renderCropHealth(w io.Writer, ds *Datasets, title string) error {
	values := make([]chart.Value, len(ds.CropHealth))
	for i, s := range ds.CropHealth {
		c := hexColor(s.Color)
		values[i] = chart.Value{
			Value: s.Value,
			Label: fmt.Sprintf("%s %.0f%%", s.Name, s.Value),
			Style: chart.Style{FillColor: c, StrokeColor: drawing.ColorWhite},
		}
	}
	pie := chart.PieChart{
		Title:  title,
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	return pie.Render(chart.PNG, w)
}

func renderHealthScore(w io.Writer, ds *Datasets, title string) error {
	weeks := make([]string, len(ds.HealthScores))
	scores := make([]float64, len(ds.HealthScores))
	for i, s := range ds.HealthScores {
		weeks[i], scores[i] = s.Week, s.Score
	}
	xs, xAxis := categoryAxis("Week", weeks)

	ch := chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: background(),
		XAxis:      xAxis,
		YAxis:      chart.YAxis{Name: "score", Range: &chart.ContinuousRange{Min: 80, Max: 100}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Score", XValues: xs, YValues: scores, Style: lineStyle(colorGreen)},
		},
	}
	return ch.Render(chart.PNG, w)
}

func renderEnvironment(w io.Writer, ds *Datasets, title string) error {
	days := make([]time.Time, len(ds.SensorTrends))
	temp := make([]float64, len(ds.SensorTrends))
	hum := make([]float64, len(ds.SensorTrends))
	soil := make([]float64, len(ds.SensorTrends))
	for i, p := range ds.SensorTrends {
		d, err := p.Time()
		if err != nil {
			return err
		}
		days[i], temp[i], hum[i], soil[i] = d, p.Temperature, p.Humidity, p.SoilMoisture
	}

	ch := chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: background(),
		XAxis:      chart.XAxis{Name: "Date", ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2")},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Temperature (°C)", XValues: days, YValues: temp, Style: lineStyle(colorRed)},
			chart.TimeSeries{Name: "Humidity (%)", XValues: days, YValues: hum, Style: lineStyle(colorBlue)},
			chart.TimeSeries{Name: "Soil Moisture (%)", XValues: days, YValues: soil, Style: lineStyle(colorGreen)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

func renderDiseaseTracking(w io.Writer, ds *Datasets, title string) error {
	bars := make([]chart.Value, len(ds.Diseases))
	for i, d := range ds.Diseases {
		c := BandColor(d.Severity.Band())
		bars[i] = chart.Value{
			Value: float64(d.Cases),
			Label: d.Disease,
			Style: chart.Style{FillColor: c, StrokeColor: c},
		}
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: background(),
		BarWidth:   60,
		BarSpacing: 40,
		Bars:       bars,
	}
	return bc.Render(chart.PNG, w)
}
