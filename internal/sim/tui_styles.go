package sim

import (
	"github.com/charmbracelet/lipgloss"

	"threatmatrix/internal/eventlog"
	"threatmatrix/internal/particle"
)

const (
	colorCyan     = lipgloss.Color("#00D9FF")
	colorDarkCyan = lipgloss.Color("#006680")
	colorRed      = lipgloss.Color("#FF0033")
	colorPink     = lipgloss.Color("#FF0066")
	colorOrange   = lipgloss.Color("#FFAA00")
	colorGreen    = lipgloss.Color("#00FF88")
	colorInfo     = lipgloss.Color("#4A9EFF")
	colorNavy     = lipgloss.Color("#0A1628")
	colorGray     = lipgloss.Color("#5A6B7D")
	colorBlack    = lipgloss.Color("#000000")
)

// styles is built per renderer so tests and --no-color never race on
// shared values.
type styles struct {
	title       lipgloss.Style
	section     lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
	dim         lipgloss.Style
	link        lipgloss.Style
	linkStrong  lipgloss.Style
	panel       lipgloss.Style
	button      lipgloss.Style
	buttonHover lipgloss.Style
	paused      lipgloss.Style
	help        lipgloss.Style
	bar         lipgloss.Style
	alertTitle  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		section:     lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		label:       lipgloss.NewStyle().Foreground(colorDarkCyan),
		value:       lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		dim:         lipgloss.NewStyle().Foreground(colorGray),
		link:        lipgloss.NewStyle().Foreground(colorDarkCyan),
		linkStrong:  lipgloss.NewStyle().Foreground(colorCyan),
		panel:       lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorDarkCyan),
		button:      lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorCyan).Foreground(colorCyan),
		buttonHover: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorCyan).Background(colorCyan).Foreground(colorNavy).Bold(true),
		paused:      lipgloss.NewStyle().Bold(true).Foreground(colorBlack).Background(colorOrange).Padding(0, 1),
		help:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCyan).Padding(0, 1),
		bar:         lipgloss.NewStyle().Foreground(colorCyan),
		alertTitle:  lipgloss.NewStyle().Bold(true).Foreground(colorRed),
	}
}

func kindColor(k particle.Kind) lipgloss.Color {
	switch k {
	case particle.KindNormal:
		return colorCyan
	case particle.KindInfected:
		return colorPink
	case particle.KindWarning:
		return colorOrange
	case particle.KindCritical:
		return colorRed
	}
	return colorGray
}

func severityColor(s eventlog.Severity) lipgloss.Color {
	switch s {
	case eventlog.SeverityCritical:
		return colorRed
	case eventlog.SeverityWarning:
		return colorOrange
	case eventlog.SeverityInfo:
		return colorInfo
	case eventlog.SeverityNormal:
		return colorGreen
	}
	return colorGray
}

// gaugeColor shades a gauge by how close it sits to its maximum.
func gaugeColor(pct float64) lipgloss.Color {
	switch {
	case pct >= 0.9:
		return colorRed
	case pct >= 0.75:
		return colorOrange
	default:
		return colorCyan
	}
}

func (st styles) kind(k particle.Kind) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(kindColor(k))
}

func (st styles) severity(s eventlog.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(severityColor(s))
}

func (st styles) badge(s eventlog.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorBlack).Background(severityColor(s)).Padding(0, 1)
}

func (st styles) gauge(pct float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(gaugeColor(pct))
}
