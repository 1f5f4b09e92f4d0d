package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/LeonardoBeccarini/smartagri/internal/model"
)

var (
	colorPrimary = lipgloss.Color("#16a34a")
	colorMuted   = lipgloss.Color("245")
	colorNormal  = lipgloss.Color("#22c55e")
	colorCaution = lipgloss.Color("#f59e0b")
	colorDanger  = lipgloss.Color("#ef4444")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	headingStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
	errorStyle    = lipgloss.NewStyle().Foreground(colorDanger)
	noticeStyle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorPrimary)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1).
			MarginRight(1)
)

// bandStyle colours text by severity band.
func bandStyle(b model.Band) lipgloss.Style {
	switch b {
	case model.BandNormal:
		return lipgloss.NewStyle().Foreground(colorNormal)
	case model.BandCaution:
		return lipgloss.NewStyle().Foreground(colorCaution)
	case model.BandCritical:
		return lipgloss.NewStyle().Foreground(colorDanger)
	default:
		return lipgloss.NewStyle()
	}
}
