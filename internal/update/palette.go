package update

import (
	"fmt"

	"github.com/sandeepkv93/todo/internal/commands"
	"github.com/sandeepkv93/todo/internal/model"
)

// executeCommand runs one line typed at the ":" prompt.
func (m *Model) executeCommand(raw string) {
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}

	m.Status = StatusBar{}
	res, err := commands.Execute(cmd, commands.Handlers{
		Goto: func(g commands.GotoArgs) (commands.Result, error) {
			if !m.Nav.Goto(g.Number, m.tasks) {
				return commands.Result{Message: fmt.Sprintf("item %d is not in the current list", g.Number)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("item %d", g.Number)}, nil
		},
		Add: func(a commands.TextArgs) (commands.Result, error) {
			m.addTask(a.Text)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Edit: func(a commands.TextArgs) (commands.Result, error) {
			task, err := m.requireSelection()
			if err != nil {
				return commands.Result{}, err
			}
			m.submit(modeEdit, task.ID, a.Text)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Category: func(a commands.TextArgs) (commands.Result, error) {
			task, err := m.requireSelection()
			if err != nil {
				return commands.Result{}, err
			}
			m.setCategory(task.ID, a.Text)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Remind: func(a commands.TextArgs) (commands.Result, error) {
			task, err := m.requireSelection()
			if err != nil {
				return commands.Result{}, err
			}
			m.setReminder(task.ID, a.Text)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			filter := model.ByCategory(f.Category)
			if f.All {
				filter = model.AllCategories
			}
			m.applyFilter(filter)
			return commands.Result{Message: m.Status.Text}, nil
		},
		View: func(v commands.ViewArgs) (commands.Result, error) {
			if v.Completed != m.Nav.View.Completed() {
				m.Nav.SwitchView()
				m.reload()
			}
			return commands.Result{Message: "view: " + m.Nav.View.String()}, nil
		},
		Help: func() (commands.Result, error) {
			m.HelpVisible = true
			return commands.Result{Message: "help shown"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	// handlers that hit the store have already set an error status
	if !m.Status.IsError {
		m.Status = StatusBar{Text: res.Message}
	}
}

func (m *Model) requireSelection() (model.Task, error) {
	task, ok := m.selectedTask()
	if !ok {
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
	}
	return task, nil
}
