package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"producer/internal/clock"
	"producer/internal/config"
	"producer/internal/storage"
	"producer/internal/tasks"
)

func (m Model) updateProducerList(key string) (tea.Model, tea.Cmd) {
	if next, cmd, handled := m.handleGlobal(key); handled {
		return next, cmd
	}

	switch key {
	case m.cfg.Keys.Down, "down":
		m.taskCursor = clampCursor(m.taskCursor+1, len(m.dayTasks))
	case m.cfg.Keys.Up, "up":
		m.taskCursor = clampCursor(m.taskCursor-1, len(m.dayTasks))
	case m.cfg.Keys.Add:
		m.status = "Add task: type and press Enter"
		return m.startInput(modeAdd, "What would you like to accomplish?")
	case m.cfg.Keys.Toggle:
		if len(m.dayTasks) == 0 {
			return m, nil
		}
		return m.toggleSelectedTask()
	case m.cfg.Keys.Delete:
		if len(m.dayTasks) == 0 {
			return m, nil
		}
		t := m.dayTasks[m.taskCursor]
		m.confirmDel = true
		m.pendingTask = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Text)
	case m.cfg.Keys.PrevDay, "left":
		return m.shiftDate(-1), nil
	case m.cfg.Keys.NextDay, "right":
		return m.shiftDate(1), nil
	case m.cfg.Keys.Today:
		m.selectedDate = m.tasks.Today()
		m.taskCursor = 0
		m.reload()
	case m.cfg.Keys.JumpDate:
		m.status = "Go to date (YYYY-MM-DD)"
		return m.startInput(modeJumpDate, clock.DateLayout)
	case m.cfg.Keys.Export:
		path, err := m.tasks.ExportToDir(m.ctx, m.cfg.ExportDir)
		if err != nil {
			m.status = fmt.Sprintf("export failed: %v", err)
		} else {
			m.status = "Exported to " + path
		}
	case m.cfg.Keys.Import:
		m.status = "Import tasks from a JSON backup"
		return m.startInput(modeImport, "path/to/"+tasks.ExportFileName(m.tasks.Today()))
	}
	return m, nil
}

func (m Model) toggleSelectedTask() (tea.Model, tea.Cmd) {
	t := m.dayTasks[m.taskCursor]
	res, err := m.tasks.ToggleTask(m.ctx, m.selectedDate, t.ID)
	m.reload()
	if err != nil && !storage.IsPersistenceError(err) {
		m.status = outcome(err, "")
		return m, nil
	}
	if !res.Celebrate {
		m.status = outcome(err, "Marked as not done")
		return m, nil
	}
	m.status = outcome(err, "Nice work!")
	m.celebrating = res.Task.ID
	id := res.Task.ID
	return m, tea.Tick(celebrationFor, func(time.Time) tea.Msg {
		return celebrationDoneMsg{id: id}
	})
}

func (m Model) submitTask(text string) (tea.Model, tea.Cmd) {
	_, ok, err := m.tasks.AddTask(m.ctx, m.selectedDate, text)
	if err == nil && !ok {
		m.status = "Task cannot be empty"
		return m, nil
	}
	m.status = outcome(err, "Added task")
	m.reload()
	m.taskCursor = clampCursor(len(m.dayTasks)-1, len(m.dayTasks))
	return m, nil
}

func (m Model) submitImport(path string) (tea.Model, tea.Cmd) {
	path = strings.TrimSpace(path)
	if path == "" {
		m.status = "Import cancelled"
		return m, nil
	}
	n, err := m.tasks.ImportFile(m.ctx, path)
	if err != nil && !storage.IsPersistenceError(err) {
		m.status = fmt.Sprintf("import failed: %v", err)
		return m, nil
	}
	m.status = outcome(err, fmt.Sprintf("Imported %d day(s)", n))
	m.reload()
	return m, nil
}

func (m Model) submitJumpDate(value string) (tea.Model, tea.Cmd) {
	value = strings.TrimSpace(value)
	if _, err := clock.ParseDate(value); err != nil {
		m.status = fmt.Sprintf("not a date: %q", value)
		return m, nil
	}
	m.selectedDate = value
	m.taskCursor = 0
	m.status = formatDate(value)
	m.reload()
	return m, nil
}

func (m Model) shiftDate(days int) Model {
	next, err := clock.AddDays(m.selectedDate, days)
	if err != nil {
		return m
	}
	m.selectedDate = next
	m.taskCursor = 0
	m.reload()
	return m
}

func (m Model) renderProducer() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderDay())
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Calendar"))
	b.WriteString("\n\n")
	for _, date := range m.tasks.RecentDates(sidebarDays) {
		line := fmt.Sprintf("%-12s", formatDate(date))
		if c := m.counts[date]; c.Total > 0 {
			line += fmt.Sprintf(" %d/%d", c.Completed, c.Total)
		}
		if date == m.selectedDate {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return sidebarStyle.Render(b.String())
}

func (m Model) renderDay() string {
	var b strings.Builder
	c := m.counts[m.selectedDate]
	b.WriteString(titleStyle.Render(formatDate(m.selectedDate)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d/%d tasks completed", c.Completed, c.Total)))
	b.WriteString("\n\n")

	if len(m.dayTasks) == 0 {
		b.WriteString(dimStyle.Render("No tasks for this day. Time to be productive!"))
		return b.String()
	}

	for i, t := range m.dayTasks {
		cursor := " "
		if m.taskCursor == i && m.mode == modeList {
			cursor = ">"
		}
		checkbox := "[ ]"
		text := t.Text
		if t.Completed {
			checkbox = doneStyle.Render("[x]")
			text = doneStyle.Render(text)
		}
		line := fmt.Sprintf("%s %s %s", cursor, checkbox, text)
		if t.MovedFrom != "" {
			line += dimStyle.Render(fmt.Sprintf(" (moved from %s)", formatDate(t.MovedFrom)))
		}
		if t.ID == m.celebrating {
			line += celebrateStyle.Render(" *")
		}
		b.WriteString(line)
		b.WriteString("\n")
		if t.Created != "" {
			b.WriteString(dimStyle.Render("      Added at " + t.Created))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderProducerHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s/%s day • %s today • %s go to • %s export • %s import • %s ideas • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Delete, k.PrevDay, k.NextDay, k.Today, k.JumpDate, k.Export, k.Import, k.SwitchView, k.Quit)
}

// formatDate renders an ISO date like "Tue, Mar 10".
func formatDate(date string) string {
	d, err := clock.ParseDate(date)
	if err != nil {
		return date
	}
	return d.Format("Mon, Jan 2")
}
