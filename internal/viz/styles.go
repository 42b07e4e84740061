package viz

import "github.com/charmbracelet/lipgloss"

// Styles derive from CurrentTheme so the T key takes effect on the next
// render.

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).MarginBottom(1)
}

func canvasStyle() lipgloss.Style {
	return lipgloss.NewStyle().Padding(1, 2)
}

func statsStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2).
		Width(46)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(13)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Text)
}

func accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)
}

func goodStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Good).Bold(true)
}

func warnStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Warn).Bold(true)
}

func graphStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Padding(1, 0)
}

func helpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
}
