package presenter

import "github.com/charmbracelet/lipgloss"

// Colors is the palette of the CLI presenter
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"),
	Muted:   lipgloss.Color("#636E72"),
	Success: lipgloss.Color("#00B894"),
	Warning: lipgloss.Color("#FDCB6E"),
	Error:   lipgloss.Color("#D63031"),
}

// styles groups the lipgloss styles used for terminal output
type styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Amount  lipgloss.Style
}

func newStyles() styles {
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(Colors.Success),
		Section: lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary),
		Label:   lipgloss.NewStyle().Width(24),
		Muted:   lipgloss.NewStyle().Foreground(Colors.Muted),
		Success: lipgloss.NewStyle().Foreground(Colors.Success),
		Warning: lipgloss.NewStyle().Foreground(Colors.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(Colors.Error),
		Amount:  lipgloss.NewStyle().Bold(true),
	}
}
