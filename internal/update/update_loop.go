package update

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/views"
)

const (
	headerLines = 3
	chromeLines = 3
	defaultRows = 24
	defaultCols = 100
)

func (m Model) Init() tea.Cmd {
	return m.refreshTick()
}

// refreshTick re-reads the store periodically so reminders fired by the
// daemon and edits from other processes show up.
func (m Model) refreshTick() tea.Cmd {
	if m.refresh <= 0 {
		return nil
	}
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		m.helpModel.Width = typed.Width
		return m, nil
	case refreshTickMsg:
		m.reload()
		return m, m.refreshTick()
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		switch {
		case m.mode.prompt():
			return m.handlePromptKey(typed)
		case m.mode == modeFilter:
			return m.handleFilterKey(typed), nil
		case m.mode == modeDetail:
			m.mode = modeList
			m.detail = ""
			return m, nil
		}
		return m.handleListKey(typed)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.entries)
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.Nav.Up(n)
	case key.Matches(msg, m.keys.Down):
		m.Nav.Down(n)
	case key.Matches(msg, m.keys.Top):
		m.Nav.Home(n)
	case key.Matches(msg, m.keys.Bottom):
		m.Nav.End(n)
	case key.Matches(msg, m.keys.PageUp):
		m.Nav.PageUp(n)
	case key.Matches(msg, m.keys.PageDown):
		m.Nav.PageDown(n)
	case key.Matches(msg, m.keys.SwitchView):
		m.Nav.SwitchView()
		m.reload()
	case key.Matches(msg, m.keys.Add):
		return m.openPrompt(modeAdd, 0, "")
	case key.Matches(msg, m.keys.Command):
		return m.openPrompt(modeCommand, 0, "")
	case key.Matches(msg, m.keys.Edit, m.keys.Category, m.keys.Reminder):
		task, ok := m.selectedTask()
		if !ok {
			m.Status = StatusBar{Text: "no task selected", IsError: true}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Edit):
			return m.openPrompt(modeEdit, task.ID, task.Text)
		case key.Matches(msg, m.keys.Category):
			return m.openPrompt(modeCategory, task.ID, task.Category)
		default:
			return m.openPrompt(modeReminder, task.ID, "")
		}
	case key.Matches(msg, m.keys.Complete):
		m.completeSelected()
	case key.Matches(msg, m.keys.Delete):
		m.deleteSelected()
	case key.Matches(msg, m.keys.Filter):
		m.openFilterMenu()
	case key.Matches(msg, m.keys.Detail):
		m.openDetail()
	case key.Matches(msg, m.keys.Help):
		m.HelpVisible = !m.HelpVisible
	case key.Matches(msg, m.keys.Cancel):
		m.HelpVisible = false
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
	case key.Matches(msg, m.keys.Up):
		if m.filterCursor > 0 {
			m.filterCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.filterCursor < len(m.filterOptions)-1 {
			m.filterCursor++
		}
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeList
		if m.filterCursor < len(m.filterOptions) {
			m.applyFilter(m.filterOptions[m.filterCursor])
		}
	}
	return m
}

func (m *Model) openFilterMenu() {
	categories, err := m.store.DistinctCategories(m.ctx, m.Nav.View)
	if err != nil {
		m.fail(err)
		return
	}
	m.filterOptions = make([]model.CategoryFilter, 0, len(categories)+1)
	m.filterOptions = append(m.filterOptions, model.AllCategories)
	m.filterCursor = 0
	for _, c := range categories {
		if m.Nav.Filter == model.ByCategory(c) {
			m.filterCursor = len(m.filterOptions)
		}
		m.filterOptions = append(m.filterOptions, model.ByCategory(c))
	}
	m.mode = modeFilter
}

func (m *Model) applyFilter(f model.CategoryFilter) {
	m.Nav.SetFilter(f, len(views.Filter(m.tasks, f)))
	m.applyEntries()
	m.Status = StatusBar{Text: "filter: " + f.String()}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	var body string
	switch {
	case m.mode == modeFilter:
		body = views.RenderFilterMenu(views.FilterMenuData{Options: m.filterOptions, Cursor: m.filterCursor})
	case m.mode == modeDetail:
		body = m.detail
	case m.HelpVisible:
		body = m.renderHelpView()
	default:
		body = views.RenderList(views.ListData{
			View:   m.Nav.View,
			Window: m.window(),
			Width:  m.listWidth(),
			Loc:    m.loc,
		})
	}
	prompt := ""
	if m.mode.prompt() {
		prompt = m.input.View()
	}
	return views.RenderApp(views.AppData{
		Header: views.RenderHeader(views.HeaderData{Counts: m.counts, Filter: m.Nav.Filter}),
		Body:   body,
		Prompt: prompt,
		Status: m.Status.Text,
		Err:    m.Status.IsError,
		Footer: m.helpModel.View(m.keys),
	})
}

// window lays out the filtered list for the current terminal size.
func (m Model) window() views.Window {
	return views.Layout(m.entries, m.Nav.Selected, m.listHeight(), views.TextWidth(m.listWidth()))
}

func (m Model) listHeight() int {
	h := m.height
	if h <= 0 {
		h = defaultRows
	}
	// header, list frame and column titles, then prompt, status and footer
	rows := h - headerLines - views.PanelFrameHeight - 1 - chromeLines
	if rows < 1 {
		return 1
	}
	return rows
}

func (m Model) listWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultCols
	}
	return w - views.PanelFrameWidth
}
