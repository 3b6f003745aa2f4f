package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header     lipgloss.Style
	hint       lipgloss.Style
	userLabel  lipgloss.Style
	modelLabel lipgloss.Style
	body       lipgloss.Style
	bullet     lipgloss.Style
	errorText  lipgloss.Style
	panel      lipgloss.Style
	panelTitle lipgloss.Style
	quick      lipgloss.Style
	disclaimer lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	muted := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	danger := lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}

	return styles{
		header:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		hint:       lipgloss.NewStyle().Foreground(muted),
		userLabel:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}),
		modelLabel: lipgloss.NewStyle().Bold(true).Foreground(accent),
		body:       lipgloss.NewStyle().PaddingLeft(2),
		bullet:     lipgloss.NewStyle().Foreground(accent),
		errorText:  lipgloss.NewStyle().Foreground(danger),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(danger).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().Bold(true).Foreground(danger),
		quick:      lipgloss.NewStyle().Foreground(muted),
		disclaimer: lipgloss.NewStyle().Italic(true).Foreground(muted),
	}
}
