package ui

import (
	"github.com/charmbracelet/lipgloss"

	"producer/internal/ideas"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("245"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("25")).Foreground(lipgloss.Color("255"))
	celebrateStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	sidebarStyle   = lipgloss.NewStyle().Width(28).PaddingRight(2).MarginRight(2).
			BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color("238"))
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = tabStyle.Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("25"))
)

func priorityStyle(p ideas.Priority) lipgloss.Style {
	switch p {
	case ideas.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	case ideas.PriorityMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	case ideas.PriorityLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	default:
		return dimStyle
	}
}

func renderTabs(v view) string {
	producer, ideasTab := tabStyle.Render("Producer"), tabStyle.Render("Ideas")
	if v == viewIdeas {
		ideasTab = activeTabStyle.Render("Ideas")
	} else {
		producer = activeTabStyle.Render("Producer")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, producer, " ", ideasTab)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
