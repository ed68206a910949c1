package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"producer/internal/config"
	"producer/internal/ideas"
	"producer/internal/scheduler"
	"producer/internal/storage"
	"producer/internal/tasks"
)

type view int

const (
	viewProducer view = iota
	viewIdeas
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeImport
	modeJumpDate
)

// sidebarDays is how many days the calendar sidebar shows.
const sidebarDays = 7

// celebrationFor is how long a just-completed task stays highlighted.
const celebrationFor = 2 * time.Second

// MaintenanceMsg carries the result of a scheduled prune/rollover pass.
type MaintenanceMsg struct {
	Report tasks.Report
	Err    error
}

type celebrationDoneMsg struct {
	id tasks.ID
}

type Model struct {
	ctx    context.Context
	tasks  *tasks.Store
	ideas  *ideas.Store
	cfg    config.Config
	view   view
	mode   mode
	input  textinput.Model
	status string

	selectedDate string
	dayTasks     []tasks.Task
	counts       map[string]tasks.Counts
	taskCursor   int
	celebrating  tasks.ID

	filter     ideas.Filter
	ideaList   []ideas.Idea
	ideaCounts map[ideas.Status]int
	ideaCursor int

	confirmDel  bool
	pendingTask *tasks.Task
	pendingIdea *ideas.Idea
}

// NewModel builds the initial model from already hydrated stores.
func NewModel(ctx context.Context, taskStore *tasks.Store, ideaStore *ideas.Store, cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	filter, err := ideas.ParseFilter(cfg.DefaultFilter)
	if err != nil {
		filter = ideas.FilterAll
	}

	m := Model{
		ctx:          ctx,
		tasks:        taskStore,
		ideas:        ideaStore,
		cfg:          cfg,
		input:        ti,
		mode:         modeList,
		selectedDate: taskStore.Today(),
		filter:       filter,
		status:       fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to switch view.", cfg.Keys.Add, cfg.Keys.SwitchView),
	}
	if cfg.StartView == "ideas" {
		m.view = viewIdeas
	}
	m.reload()
	return m
}

// Run starts the TUI and the recurring maintenance task, and stops the
// task again when the program exits.
func Run(ctx context.Context, taskStore *tasks.Store, ideaStore *ideas.Store, cfg config.Config) error {
	interval, err := cfg.Interval()
	if err != nil {
		return err
	}

	program := tea.NewProgram(NewModel(ctx, taskStore, ideaStore, cfg), tea.WithAltScreen(), tea.WithContext(ctx))

	maintenance := scheduler.Every(ctx, interval, func(ctx context.Context) {
		rep, err := taskStore.Maintain(ctx)
		if err != nil {
			log.Printf("maintenance: %v", err)
		} else {
			log.Printf("maintenance: today=%s pruned=%d moved=%d from=%q", rep.Today, rep.PrunedTasks, rep.MovedTasks, rep.MovedFrom)
		}
		program.Send(MaintenanceMsg{Report: rep, Err: err})
	})
	defer maintenance.Stop()

	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode != modeList {
			return m.updateInputMode(msg.String(), msg)
		}
		if m.view == viewIdeas {
			return m.updateIdeasList(msg.String())
		}
		return m.updateProducerList(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	case MaintenanceMsg:
		m.reload()
		switch {
		case msg.Err != nil:
			m.status = fmt.Sprintf("daily cleanup: %v", msg.Err)
		case msg.Report.MovedTasks > 0:
			m.status = fmt.Sprintf("Moved %d unfinished task(s) from %s", msg.Report.MovedTasks, formatDate(msg.Report.MovedFrom))
		}
	case celebrationDoneMsg:
		if m.celebrating == msg.id {
			m.celebrating = ""
		}
	}
	return m, nil
}

// handleGlobal covers keys shared by both list views.
func (m Model) handleGlobal(key string) (Model, tea.Cmd, bool) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit, true
	case m.cfg.Keys.SwitchView:
		if m.view == viewProducer {
			m.view = viewIdeas
		} else {
			m.view = viewProducer
		}
		m.reload()
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) startInput(md mode, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	return m, m.input.Focus()
}

func (m Model) updateInputMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		value := m.input.Value()
		md := m.mode
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		switch md {
		case modeAdd:
			if m.view == viewIdeas {
				return m.submitIdea(value)
			}
			return m.submitTask(value)
		case modeImport:
			return m.submitImport(value)
		case modeJumpDate:
			return m.submitJumpDate(value)
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
	case "y", "Y":
		switch {
		case m.pendingTask != nil:
			_, err := m.tasks.DeleteTask(m.ctx, m.selectedDate, m.pendingTask.ID)
			m.status = outcome(err, "Deleted task")
		case m.pendingIdea != nil:
			_, err := m.ideas.DeleteIdea(m.ctx, m.pendingIdea.ID)
			m.status = outcome(err, "Deleted idea")
		default:
			m.status = "Nothing to delete"
		}
		m.reload()
	default:
		return m, nil
	}
	m.confirmDel = false
	m.pendingTask = nil
	m.pendingIdea = nil
	return m, nil
}

// reload refreshes every cached read model from the stores.
func (m *Model) reload() {
	var err error
	if m.dayTasks, err = m.tasks.Tasks(m.ctx, m.selectedDate); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	dates := m.tasks.RecentDates(sidebarDays)
	dates = append(dates, m.selectedDate)
	if m.counts, err = m.tasks.CountsFor(m.ctx, dates); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	m.taskCursor = clampCursor(m.taskCursor, len(m.dayTasks))

	if m.ideaList, err = m.ideas.FilterBy(m.ctx, m.filter); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	if m.ideaCounts, err = m.ideas.Counts(m.ctx); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	m.ideaCursor = clampCursor(m.ideaCursor, len(m.ideaList))
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(renderTabs(m.view))
	b.WriteString("\n\n")
	if m.view == viewIdeas {
		b.WriteString(m.renderIdeas())
	} else {
		b.WriteString(m.renderProducer())
	}
	b.WriteString("\n---\n")

	if m.mode != modeList {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}
	b.WriteString(m.status)
	b.WriteString("\n")
	if m.view == viewIdeas {
		b.WriteString(helpStyle.Render(renderIdeasHelp(m.cfg.Keys)))
	} else {
		b.WriteString(helpStyle.Render(renderProducerHelp(m.cfg.Keys)))
	}
	return b.String()
}

// outcome turns a store error into a status line. A persistence failure
// still means the change happened in memory.
func outcome(err error, ok string) string {
	switch {
	case err == nil:
		return ok
	case storage.IsPersistenceError(err):
		log.Printf("persist: %v", err)
		return fmt.Sprintf("%s (not saved: %v)", ok, err)
	default:
		log.Printf("store: %v", err)
		return fmt.Sprintf("failed: %v", err)
	}
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
