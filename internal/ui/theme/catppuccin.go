package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Overlay0 = lipgloss.Color("#6c7086")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Alert = lipgloss.NewStyle().Foreground(Red).Bold(true)

	// Dial pieces.
	Ring      = lipgloss.NewStyle().Foreground(Overlay0)
	RingMark  = lipgloss.NewStyle().Foreground(Lavender)
	Hand      = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	HandIdle  = lipgloss.NewStyle().Foreground(Surface1)
	Readout   = lipgloss.NewStyle().Foreground(Text).Bold(true)
	Running   = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Paused    = lipgloss.NewStyle().Foreground(Yellow)
	Countdown = lipgloss.NewStyle().Foreground(Sapphire)
)
