package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LeonardoBeccarini/smartagri/internal/model"
	"github.com/LeonardoBeccarini/smartagri/internal/model/entities"
	simulator "github.com/LeonardoBeccarini/smartagri/internal/sensor-simulator"
	"github.com/LeonardoBeccarini/smartagri/internal/services/analytics"
	"github.com/LeonardoBeccarini/smartagri/internal/services/router"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	view := m.router.Current()
	b.WriteString(titleStyle.Render("SmartAgri") + "  " + subtitleStyle.Render(view.Title()) + "\n")

	switch view {
	case router.ViewHome:
		m.viewHome(&b)
	case router.ViewDetection:
		m.viewDetection(&b)
	case router.ViewMonitoring:
		m.viewMonitoring(&b)
	case router.ViewAnalytics:
		m.viewAnalytics(&b)
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	} else if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}
	b.WriteString(helpStyle.Render(m.help(view)) + "\n")
	return b.String()
}

func (m *Model) help(view router.View) string {
	switch view {
	case router.ViewHome:
		return "1 detection • 2 monitoring • 3 analytics • q quit"
	case router.ViewDetection:
		if m.input.Focused() {
			return "enter select • esc cancel"
		}
		return "o open image • a analyze • b back • q quit"
	case router.ViewMonitoring:
		return "r refresh • b back • q quit"
	case router.ViewAnalytics:
		return "t time range • tab next tab • b back • q quit"
	}
	return ""
}

func (m *Model) viewHome(b *strings.Builder) {
	b.WriteString(headingStyle.Render(router.Tagline) + "\n")
	b.WriteString(subtitleStyle.Render(router.Pitch) + "\n")

	b.WriteString(headingStyle.Render("Comprehensive Smart Farming Solutions") + "\n")
	keys := map[router.View]string{
		router.ViewDetection:  "1",
		router.ViewMonitoring: "2",
		router.ViewAnalytics:  "3",
	}
	for _, f := range router.Features {
		key := " "
		if k, ok := keys[f.Target]; ok {
			key = k
		}
		fmt.Fprintf(b, " [%s] %s: %s\n", key, f.Title, subtitleStyle.Render(f.Description))
	}

	b.WriteString(headingStyle.Render("Why Choose SmartAgri?") + "\n")
	for _, c := range router.Benefits {
		fmt.Fprintf(b, "  • %s: %s\n", c.Title, c.Description)
	}
}

func (m *Model) viewDetection(b *strings.Builder) {
	if m.input.Focused() {
		b.WriteString("\n" + m.input.View() + "\n")
	}

	img, ok := m.classifier.Image()
	if !ok {
		b.WriteString("\nNo image selected. Press o to open a crop photo.\n")
		return
	}
	fmt.Fprintf(b, "\nImage: %s (%s, %dx%d)\n", img.Name, img.Format, img.Width, img.Height)

	if m.classifier.Analyzing() {
		b.WriteString(m.spinner.View() + " Analyzing...\n")
		return
	}
	res, ok := m.classifier.Result()
	if !ok {
		b.WriteString("Press a to analyze.\n")
		return
	}

	style := bandStyle(res.Status.Band())
	b.WriteString(headingStyle.Render("Analysis Results") + "\n")
	fmt.Fprintf(b, "  %s  %s\n", style.Bold(true).Render(res.Condition), style.Render(fmt.Sprintf("%d%% confidence", res.Confidence)))
	fmt.Fprintf(b, "  Severity:   %s\n", res.Severity)
	fmt.Fprintf(b, "  Treatment:  %s\n", res.Treatment)
	fmt.Fprintf(b, "  Prevention: %s\n", res.Prevention)
}

func (m *Model) viewMonitoring(b *strings.Builder) {
	if m.feed.Refreshing() {
		b.WriteString(m.spinner.View() + " Refreshing...\n")
	}
	readings := m.feed.Readings()
	sum := simulator.Summarize(readings)

	cards := []string{
		averageCard(entities.MetricTemperature, sum.AvgTemperature),
		averageCard(entities.MetricHumidity, sum.AvgHumidity),
		averageCard(entities.MetricSoilMoisture, sum.AvgSoilMoisture),
		card("Active Sensors", fmt.Sprintf("%d/%d", sum.Online, sum.Total), model.BandNone),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n")

	b.WriteString(headingStyle.Render("Sensor Network") + "\n")
	for _, r := range readings {
		fmt.Fprintf(b, "  %-9s %-16s %s  %s  %s  %s  light %.1f%%  battery %.1f%%  %s\n",
			r.Name,
			r.Location,
			bandStyle(simulator.StatusBand(r.Status)).Render(fmt.Sprintf("%-7s", r.Status)),
			metricCell(r, entities.MetricTemperature, ""),
			metricCell(r, entities.MetricHumidity, ""),
			metricCell(r, entities.MetricSoilMoisture, "soil "),
			r.LightLevel,
			r.BatteryLevel,
			subtitleStyle.Render(r.LastUpdate.Format("15:04:05")),
		)
	}

	alerts := simulator.DetectAlerts(readings)
	b.WriteString(headingStyle.Render("Active Alerts") + "\n")
	if len(alerts) == 0 {
		b.WriteString("  none\n")
	}
	for _, a := range alerts {
		fmt.Fprintf(b, "  %s %s\n", bandStyle(a.Band).Render(a.Title+":"), a.Detail)
	}

	fmt.Fprintf(b, "\nField: %.1f hectares • %d%% sensor coverage\n", simulator.FieldAreaHectares, simulator.FieldCoveragePct)
}

func card(title, value string, band model.Band) string {
	return cardStyle.Render(subtitleStyle.Render(title) + "\n" + bandStyle(band).Bold(true).Render(value))
}

func metricCell(r model.SensorReading, metric entities.Metric, prefix string) string {
	v := r.Value(metric)
	return bandStyle(simulator.Classify(metric, v)).Render(fmt.Sprintf("%s%5.1f%s", prefix, v, metric.Unit()))
}

func averageCard(metric entities.Metric, v float64) string {
	return card("Avg "+metric.Label(), fmt.Sprintf("%.1f%s", v, metric.Unit()), simulator.Classify(metric, v))
}

func (m *Model) viewAnalytics(b *strings.Builder) {
	var ranges []string
	current := m.analytics.TimeRange()
	for _, r := range analytics.TimeRanges {
		if r == current {
			ranges = append(ranges, selectedStyle.Render(string(r)))
		} else {
			ranges = append(ranges, string(r))
		}
	}
	b.WriteString("Range: " + strings.Join(ranges, "  ") + "\n")

	data := m.analytics.Data()
	cards := make([]string, 0, len(data.KPIs))
	for _, k := range data.KPIs {
		cards = append(cards, card(k.Title, k.Value+"  "+k.Change, model.BandNormal))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n")

	var tabs []string
	tab := m.analytics.Tab()
	for _, t := range analytics.Tabs {
		if t == tab {
			tabs = append(tabs, selectedStyle.Render(t.Title()))
		} else {
			tabs = append(tabs, t.Title())
		}
	}
	b.WriteString(strings.Join(tabs, " | ") + "\n")

	for _, c := range m.analytics.Charts(tab) {
		b.WriteString(headingStyle.Render(c.Title) + "  " + subtitleStyle.Render(c.Description) + "\n")
		renderChartRows(b, data, c.ID)
	}
	if tab == analytics.TabYield {
		b.WriteString(headingStyle.Render("Yield Insights") + "\n")
		for _, in := range data.Insights {
			fmt.Fprintf(b, "  %s: %s\n", noticeStyle.Render(in.Title), in.Body)
		}
	}
}

// renderChartRows prints the figures behind a chart; the PNG itself is only
// produced by the render command.
func renderChartRows(b *strings.Builder, data *analytics.Datasets, id analytics.ChartID) {
	switch id {
	case analytics.ChartYieldVsTarget:
		for _, p := range data.Yield {
			fmt.Fprintf(b, "  %s  yield %6.0f  target %6.0f\n", p.Month, p.Yield, p.Target)
		}
	case analytics.ChartDiseaseImpact:
		for _, p := range data.Yield {
			fmt.Fprintf(b, "  %s  yield %6.0f  diseases %3d\n", p.Month, p.Yield, p.Diseases)
		}
	case analytics.ChartCropHealth:
		for _, s := range data.CropHealth {
			fmt.Fprintf(b, "  %s %.0f%%\n", lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(s.Name), s.Value)
		}
	case analytics.ChartHealthScore:
		for _, s := range data.HealthScores {
			fmt.Fprintf(b, "  %s  %.0f\n", s.Week, s.Score)
		}
	case analytics.ChartEnvironment:
		for _, p := range data.SensorTrends {
			fmt.Fprintf(b, "  %s  %.0f°C  %.0f%%  soil %.0f%%\n", p.Date, p.Temperature, p.Humidity, p.SoilMoisture)
		}
	case analytics.ChartDiseaseTracking:
		for _, d := range data.Diseases {
			fmt.Fprintf(b, "  %-13s %3d cases detected  %s\n", d.Disease, d.Cases, bandStyle(d.Severity.Band()).Render(string(d.Severity)))
		}
	}
}
