package style

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/clcollins/srenow/pkg/snow"
)

const (
	Gray       = lipgloss.Color("240")
	PaleYellow = lipgloss.Color("229")
	NeonPurple = lipgloss.Color("57")
	Lilac      = lipgloss.Color("105")
	Pink       = lipgloss.Color("205")
)

var (
	white          = lipgloss.AdaptiveColor{Dark: "#ffffff", Light: "#1b263b"}
	lightBlue      = lipgloss.AdaptiveColor{Dark: "#778da9", Light: "#415a77"}
	blue           = lipgloss.AdaptiveColor{Dark: "#415a77", Light: "#415a77"}
	backgroundBlue = lipgloss.AdaptiveColor{Dark: "#0d1b2a", Light: "#e0e1dd"}
	red            = lipgloss.AdaptiveColor{Light: "#E11C9C", Dark: "#FF62DA"}
	orange         = lipgloss.AdaptiveColor{Light: "#c75c00", Dark: "#ffa94d"}
	green          = lipgloss.AdaptiveColor{Light: "#2b8a3e", Dark: "#8ce99a"}
)

var (
	Main = lipgloss.NewStyle().Margin(0, 0).Padding(0, 0).Foreground(lightBlue)

	Padded = Main.Copy().Padding(0, 2, 0, 1)

	TableContainer = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(blue)

	Table = table.Styles{
		Selected: lipgloss.NewStyle().Bold(true).Foreground(PaleYellow).Background(NeonPurple),
		Header:   lipgloss.NewStyle().Bold(false).Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).BorderForeground(Gray).BorderBottom(true).Foreground(white),
		Cell:     lipgloss.NewStyle().Padding(0, 1),
	}

	Help = lipgloss.NewStyle().Foreground(Lilac)

	Spinner = lipgloss.NewStyle().Foreground(Pink)

	RecordViewer = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(blue)

	Dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Lilac).
		Padding(1, 2).
		Width(72)

	DialogTitle = lipgloss.NewStyle().Bold(true).Foreground(white)

	Menu = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Lilac).Padding(0, 1)

	MenuSelected = lipgloss.NewStyle().Bold(true).Foreground(PaleYellow).Background(NeonPurple)

	// Alert renders fetch and action errors inline
	Alert = lipgloss.NewStyle().
		Bold(true).
		Foreground(red).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(red).
		Padding(0, 1)

	Error = lipgloss.NewStyle().
		Bold(true).
		Width(64).
		Foreground(white).
		Background(backgroundBlue).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(red).
		Padding(1, 3, 1, 3)

	critical = lipgloss.NewStyle().Bold(true).Foreground(red)
	warning  = lipgloss.NewStyle().Foreground(orange)
	ok       = lipgloss.NewStyle().Foreground(green)
	neutral  = lipgloss.NewStyle()
)

// Severity returns the text style for a label severity
func Severity(s snow.Severity) lipgloss.Style {
	switch s {
	case snow.SeverityCritical:
		return critical
	case snow.SeverityWarning:
		return warning
	case snow.SeverityOK:
		return ok
	default:
		return neutral
	}
}
