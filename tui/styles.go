package tui

import "github.com/charmbracelet/lipgloss"

// Console palette: teal for headings, amber while a run is in flight,
// green/red for terminal outcomes.
var (
	teal  = lipgloss.Color("#2AA198")
	amber = lipgloss.Color("#D79921")
	green = lipgloss.Color("#50C878")
	red   = lipgloss.Color("#DC322F")
	grey  = lipgloss.Color("#7A7A7A")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(teal).
			Underline(true).
			MarginTop(1)

	RunningStyle = lipgloss.NewStyle().
			Foreground(amber).
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(green)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(red)

	InfoStyle = lipgloss.NewStyle().
			Foreground(grey)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(teal).
			Padding(1, 3).
			MarginTop(1)

	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FDF6E3")).
			Background(teal).
			Padding(0, 1)
)
