package update

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/views"
)

var promptLabels = map[mode]string{
	modeAdd:      "New task: ",
	modeEdit:     "Edit task: ",
	modeCategory: "Category (blank clears): ",
	modeReminder: "Remind in (e.g. 2h, 1d every 1d -- message; blank clears): ",
	modeCommand:  ":",
}

func (m Model) openPrompt(md mode, target model.TaskID, value string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.target = target
	m.HelpVisible = false
	m.input.Prompt = promptLabels[md]
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *Model) closePrompt() {
	m.mode = modeList
	m.target = 0
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		md, target, value := m.mode, m.target, m.input.Value()
		m.closePrompt()
		m.submit(md, target, value)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit(md mode, target model.TaskID, value string) {
	switch md {
	case modeAdd:
		m.addTask(value)
	case modeEdit:
		if err := m.store.UpdateText(m.ctx, target, value); err != nil {
			m.fail(err)
			return
		}
		m.reload()
		m.Status = StatusBar{Text: fmt.Sprintf("task %d updated", target)}
	case modeCategory:
		m.setCategory(target, value)
	case modeReminder:
		m.setReminder(target, value)
	case modeCommand:
		m.executeCommand(value)
	}
}

func (m *Model) addTask(text string) {
	id, err := m.store.CreateTask(m.ctx, text, "")
	if err != nil {
		m.fail(err)
		return
	}
	m.reload()
	m.selectTask(id)
	m.Status = StatusBar{Text: fmt.Sprintf("added task %d", id)}
}

func (m *Model) setCategory(id model.TaskID, category string) {
	category = strings.TrimSpace(category)
	if err := m.store.UpdateCategory(m.ctx, id, category); err != nil {
		m.fail(err)
		return
	}
	m.reload()
	if category == "" {
		m.Status = StatusBar{Text: fmt.Sprintf("task %d category cleared", id)}
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("task %d category: %s", id, category)}
}

func (m *Model) setReminder(id model.TaskID, raw string) {
	req, err := model.ParseReminderRequest(raw)
	if err != nil {
		m.fail(err)
		return
	}
	at := req.ScheduledAt(m.now())
	if err := m.store.SetReminder(m.ctx, id, at, req.RepeatInterval(), req.Message); err != nil {
		m.fail(err)
		return
	}
	m.reload()
	if req.Clears() {
		m.Status = StatusBar{Text: fmt.Sprintf("task %d reminder cleared", id)}
		return
	}
	text := fmt.Sprintf("task %d reminder at %s", id, m.localTime(at))
	if every := req.RepeatInterval(); every > 0 {
		text += fmt.Sprintf(", every %s", every)
	}
	m.Status = StatusBar{Text: text}
}

func (m *Model) completeSelected() {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return
	}
	if err := m.store.Complete(m.ctx, task.ID); err != nil {
		m.fail(err)
		return
	}
	m.reload()
	if task.Completed {
		m.Status = StatusBar{Text: fmt.Sprintf("task %d already completed", task.ID)}
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("completed task %d", task.ID)}
}

func (m *Model) deleteSelected() {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return
	}
	if err := m.store.DeleteTask(m.ctx, task.ID); err != nil {
		m.fail(err)
		return
	}
	m.reload()
	m.Status = StatusBar{Text: fmt.Sprintf("deleted task %d", task.ID)}
}

func (m *Model) openDetail() {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return
	}
	history, err := m.store.ReminderHistory(m.ctx, task.ID)
	if err != nil {
		m.fail(err)
		return
	}
	md := views.RenderTaskDetail(views.TaskDetailData{Task: task, History: history, Loc: m.loc})
	m.detail = views.RenderMarkdown(md, m.listWidth())
	m.mode = modeDetail
}

// fail reports a store error. A vanished task means another process changed
// the list, so it is re-read before the message is shown.
func (m *Model) fail(err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		m.reload()
		m.Status = StatusBar{Text: "task no longer exists, list refreshed", IsError: true}
	case errors.Is(err, model.ErrValidation):
		m.Status = StatusBar{Text: strings.TrimPrefix(err.Error(), "model: "), IsError: true}
	default:
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	}
}
