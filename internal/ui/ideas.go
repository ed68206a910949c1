package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"producer/internal/config"
	"producer/internal/ideas"
)

func (m Model) updateIdeasList(key string) (tea.Model, tea.Cmd) {
	if next, cmd, handled := m.handleGlobal(key); handled {
		return next, cmd
	}

	switch key {
	case m.cfg.Keys.Down, "down":
		m.ideaCursor = clampCursor(m.ideaCursor+1, len(m.ideaList))
	case m.cfg.Keys.Up, "up":
		m.ideaCursor = clampCursor(m.ideaCursor-1, len(m.ideaList))
	case m.cfg.Keys.Add:
		m.status = "Add idea: type and press Enter"
		return m.startInput(modeAdd, "What's your next big goal?")
	case m.cfg.Keys.Toggle:
		if len(m.ideaList) == 0 {
			return m, nil
		}
		idea, _, err := m.ideas.ToggleStatus(m.ctx, m.ideaList[m.ideaCursor].ID)
		m.status = outcome(err, fmt.Sprintf("%q is now %s", idea.Text, idea.Status))
		m.reload()
	case m.cfg.Keys.Priority:
		if len(m.ideaList) == 0 {
			return m, nil
		}
		idea, _, err := m.ideas.CyclePriority(m.ctx, m.ideaList[m.ideaCursor].ID)
		m.status = outcome(err, fmt.Sprintf("Priority: %s", idea.Priority))
		m.reload()
	case m.cfg.Keys.Filter:
		m.filter = m.filter.Next()
		m.ideaCursor = 0
		m.status = "Showing " + string(m.filter)
		m.reload()
	case m.cfg.Keys.Delete:
		if len(m.ideaList) == 0 {
			return m, nil
		}
		idea := m.ideaList[m.ideaCursor]
		m.confirmDel = true
		m.pendingIdea = &idea
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", idea.Text)
	}
	return m, nil
}

func (m Model) submitIdea(text string) (tea.Model, tea.Cmd) {
	_, ok, err := m.ideas.AddIdea(m.ctx, text)
	if err == nil && !ok {
		m.status = "Idea cannot be empty"
		return m, nil
	}
	m.status = outcome(err, "Added idea")
	m.reload()
	return m, nil
}

func (m Model) renderIdeas() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Ideas & Goals"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Capture your dreams, goals, and future plans."))
	b.WriteString("\n\n")

	for _, f := range []ideas.Filter{ideas.FilterAll, ideas.FilterActive, ideas.FilterCompleted} {
		label := " " + string(f) + " "
		if f == m.filter {
			b.WriteString(selectedStyle.Render(label))
		} else {
			b.WriteString(dimStyle.Render(label))
		}
	}
	b.WriteString("   ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d active · %d completed",
		m.ideaCounts[ideas.StatusActive], m.ideaCounts[ideas.StatusCompleted])))
	b.WriteString("\n\n")

	if len(m.ideaList) == 0 {
		b.WriteString(dimStyle.Render("No ideas here yet. Dream big!"))
		return b.String()
	}

	for i, idea := range m.ideaList {
		cursor := " "
		if m.ideaCursor == i && m.mode == modeList {
			cursor = ">"
		}
		mark := "( )"
		text := idea.Text
		if idea.Status == ideas.StatusCompleted {
			mark = doneStyle.Render("(x)")
			text = doneStyle.Render(text)
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s  %s\n",
			cursor, mark, priorityStyle(idea.Priority).Render(fmt.Sprintf("%-6s", idea.Priority)), text,
			dimStyle.Render("added "+idea.Created.Local().Format("Jan 2, 2006"))))
	}
	return b.String()
}

func renderIdeasHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s done • %s priority • %s filter • %s delete • %s producer • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Priority, k.Filter, k.Delete, k.SwitchView, k.Quit)
}
