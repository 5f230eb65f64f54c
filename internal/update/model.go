package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/views"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeCategory
	modeReminder
	modeCommand
	modeFilter
	modeDetail
)

func (md mode) prompt() bool {
	switch md {
	case modeAdd, modeEdit, modeCategory, modeReminder, modeCommand:
		return true
	default:
		return false
	}
}

type StatusBar struct {
	Text    string
	IsError bool
}

type Options struct {
	Store    storage.Repository
	Config   config.Config
	Context  context.Context
	Now      func() time.Time
	Location *time.Location
}

type Model struct {
	Nav         NavState
	Status      StatusBar
	HelpVisible bool
	Quitting    bool

	store   storage.Repository
	ctx     context.Context
	now     func() time.Time
	loc     *time.Location
	refresh time.Duration
	keys    keyMap

	// tasks is the whole partition in store order; entries is the filtered view.
	tasks        []model.Task
	entries      []views.Entry
	counts       storage.Counts
	storageError bool

	mode          mode
	target        model.TaskID
	input         textinput.Model
	filterOptions []model.CategoryFilter
	filterCursor  int
	detail        string
	helpModel     help.Model
	width         int
	height        int
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type refreshTickMsg struct{}

// NewModel builds the interactive program and loads the current partition.
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	m := Model{
		Nav:       NewNavState(cfg.PageSize),
		store:     opts.Store,
		ctx:       opts.Context,
		now:       opts.Now,
		loc:       opts.Location,
		refresh:   cfg.RefreshInterval.Std(),
		keys:      newKeyMap(cfg.Keys),
		input:     textinput.New(),
		helpModel: help.New(),
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.input.CharLimit = 512
	m.reload()
	return m
}

// Entries is the filtered list currently shown.
func (m Model) Entries() []views.Entry {
	return m.entries
}

func (m Model) Counts() storage.Counts {
	return m.counts
}

func (m Model) selectedTask() (model.Task, bool) {
	if len(m.entries) == 0 {
		return model.Task{}, false
	}
	idx := views.ClampSelection(m.Nav.Selected, len(m.entries))
	return m.entries[idx].Task, true
}

// reload re-reads the current partition. On failure the previous list stays
// on screen and the status bar reports the error.
func (m *Model) reload() {
	tasks, err := m.store.ListTasks(m.ctx, storage.TaskListFilter{Partition: m.Nav.View, Category: model.AllCategories})
	if err != nil {
		m.storageError = true
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.applyEntries()
		return
	}
	counts, err := m.store.Counts(m.ctx)
	if err != nil {
		m.storageError = true
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.counts = counts
		if m.storageError {
			m.storageError = false
			m.Status = StatusBar{}
		}
	}
	m.tasks = tasks
	m.applyEntries()
}

func (m *Model) applyEntries() {
	m.entries = views.Filter(m.tasks, m.Nav.Filter)
	m.Nav.Clamp(len(m.entries))
}

func (m *Model) selectTask(id model.TaskID) {
	for i, e := range m.entries {
		if e.Task.ID == id {
			m.Nav.Selected = i
			return
		}
	}
}
