package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the terminal dashboard.
type Styles struct {
	Title      lipgloss.Style
	Header     lipgloss.Style
	Subtitle   lipgloss.Style
	Sidebar    lipgloss.Style
	MenuItem   lipgloss.Style
	MenuActive lipgloss.Style
	Content    lipgloss.Style
	Focused    lipgloss.Style
	Info       lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
	Muted      lipgloss.Style
}

// DefaultStyles returns the dashboard palette.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#D83A3A", Dark: "#FF6B6B"}
	border := lipgloss.AdaptiveColor{Light: "#C9CCD3", Dark: "#44475A"}

	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(primary),
		Header:     lipgloss.NewStyle().Bold(true).Underline(true),
		Subtitle:   lipgloss.NewStyle().Bold(true),
		Sidebar:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1).Width(34),
		MenuItem:   lipgloss.NewStyle().PaddingLeft(2),
		MenuActive: lipgloss.NewStyle().Foreground(primary).Bold(true),
		Content:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		Focused:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1),
		Info:       lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0054A3", Dark: "#6CB6FF"}),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#926C05", Dark: "#E5C07B"}),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A12A2A", Dark: "#FF7B72"}),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#8B949E"}),
	}
}
