package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the lipgloss styles the model renders with.
type Theme struct {
	Header   lipgloss.Style
	Notice   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Button   lipgloss.Style
	Disabled lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Panel    lipgloss.Style
}

// DefaultTheme is the colored theme.
func DefaultTheme() Theme {
	return Theme{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Notice:   lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Cursor:   lipgloss.NewStyle().Bold(true).Reverse(true),
		Button:   lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15")),
		Disabled: lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// PlainTheme renders without colors or borders.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Header: plain, Notice: plain, Muted: plain, Selected: plain,
		Cursor: plain, Button: plain, Disabled: plain, Error: plain,
		Success: plain, Panel: plain,
	}
}
