package update

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
)

var testNow = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

func setupModel(t *testing.T) (Model, *storage.SQLiteRepository) {
	t.Helper()
	clock := func() time.Time { return testNow }
	repo, err := storage.OpenSQLite(context.Background(), storage.DriverPure, filepath.Join(t.TempDir(), "todo.db"), storage.WithClock(clock))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	m := NewModel(Options{Store: repo, Config: config.Default(), Now: clock, Location: time.UTC})
	return m, repo
}

func seed(t *testing.T, repo *storage.SQLiteRepository, tasks ...[2]string) []model.TaskID {
	t.Helper()
	ids := make([]model.TaskID, 0, len(tasks))
	for _, task := range tasks {
		id, err := repo.CreateTask(context.Background(), task[0], task[1])
		if err != nil {
			t.Fatalf("create %q: %v", task[0], err)
		}
		ids = append(ids, id)
	}
	return ids
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestAddTaskThroughPrompt(t *testing.T) {
	m, repo := setupModel(t)
	m = press(t, m, keyRunes("n"), keyRunes("buy milk"), keyEnter)

	if m.mode != modeList {
		t.Fatalf("expected prompt closed, mode=%v", m.mode)
	}
	if len(m.Entries()) != 1 || m.Entries()[0].Task.Text != "buy milk" {
		t.Fatalf("unexpected entries %+v", m.Entries())
	}
	if m.Counts().Current != 1 || m.Status.IsError {
		t.Fatalf("unexpected counts %+v status %+v", m.Counts(), m.Status)
	}
	tasks, err := repo.ListTasks(context.Background(), storage.TaskListFilter{})
	if err != nil || len(tasks) != 1 || tasks[0].Category != "" {
		t.Fatalf("expected stored uncategorized task, got %+v %v", tasks, err)
	}
}

func TestAddEmptyTaskIsRejected(t *testing.T) {
	m, _ := setupModel(t)
	m = press(t, m, keyRunes("n"), keyRunes("   "), keyEnter)
	if !m.Status.IsError || len(m.Entries()) != 0 {
		t.Fatalf("expected validation error, got status %+v entries %d", m.Status, len(m.Entries()))
	}
}

func TestPromptCancelKeepsList(t *testing.T) {
	m, _ := setupModel(t)
	m = press(t, m, keyRunes("n"), keyRunes("draft"), keyEsc)
	if m.mode != modeList || len(m.Entries()) != 0 {
		t.Fatalf("cancel should not add, mode=%v entries=%d", m.mode, len(m.Entries()))
	}
}

func TestCompleteMovesTaskAndSwitchResetsSelection(t *testing.T) {
	m, repo := setupModel(t)
	seed(t, repo, [2]string{"a", ""}, [2]string{"b", ""}, [2]string{"c", ""})
	m = press(t, m, refreshTickMsg{}, keyDown, keyRunes("c"))

	if len(m.Entries()) != 2 || m.Entries()[1].Task.Text != "c" {
		t.Fatalf("expected b removed from current, got %+v", m.Entries())
	}
	if m.Nav.Selected != 1 {
		t.Fatalf("expected selection to stay at index 1, got %d", m.Nav.Selected)
	}
	if m.Counts() != (storage.Counts{Current: 2, Completed: 1}) {
		t.Fatalf("unexpected counts %+v", m.Counts())
	}

	m = press(t, m, keyTab)
	if m.Nav.View != model.PartitionCompleted || m.Nav.Selected != 0 {
		t.Fatalf("unexpected nav after switch %+v", m.Nav)
	}
	if len(m.Entries()) != 1 || m.Entries()[0].Task.Text != "b" {
		t.Fatalf("expected b in completed view, got %+v", m.Entries())
	}
}

func TestDeleteLastClampsSelection(t *testing.T) {
	m, repo := setupModel(t)
	seed(t, repo, [2]string{"a", ""}, [2]string{"b", ""})
	m = press(t, m, refreshTickMsg{}, keyRunes("G"), keyRunes("d"))
	if len(m.Entries()) != 1 || m.Nav.Selected != 0 {
		t.Fatalf("expected one entry selected at 0, got %d entries selected %d", len(m.Entries()), m.Nav.Selected)
	}
}

func TestFilterMenuAndGoto(t *testing.T) {
	m, repo := setupModel(t)
	seed(t, repo,
		[2]string{"report", "work"},
		[2]string{"milk", "home"},
		[2]string{"deploy", "work"},
	)
	m = press(t, m, refreshTickMsg{}, keyRunes("#"))
	if m.mode != modeFilter || len(m.filterOptions) != 3 {
		t.Fatalf("expected filter menu with All+2 categories, got mode=%v options=%v", m.mode, m.filterOptions)
	}
	// options: All, home, work
	m = press(t, m, keyDown, keyDown, keyEnter)
	if m.Nav.Filter != model.ByCategory("work") || len(m.Entries()) != 2 {
		t.Fatalf("expected work filter, got %+v entries=%d", m.Nav.Filter, len(m.Entries()))
	}

	m = press(t, m, keyRunes(":"), keyRunes("3"), keyEnter)
	if m.Nav.Selected != 1 {
		t.Fatalf("goto 3 should select deploy at filtered index 1, got %d", m.Nav.Selected)
	}
	m = press(t, m, keyRunes(":"), keyRunes("2"), keyEnter)
	if m.Nav.Selected != 1 || m.Nav.Filter != model.ByCategory("work") {
		t.Fatalf("goto a hidden task must not move or change filter: %+v", m.Nav)
	}

	m = press(t, m, keyRunes(":"), keyRunes("filter all"), keyEnter)
	if !m.Nav.Filter.IsAll() || len(m.Entries()) != 3 {
		t.Fatalf("expected All filter, got %+v", m.Nav.Filter)
	}
}

func TestSetReminderThroughPrompt(t *testing.T) {
	m, repo := setupModel(t)
	ids := seed(t, repo, [2]string{"Buy milk", ""})
	m = press(t, m, refreshTickMsg{}, keyRunes("r"), keyRunes("2h every 1d"), keyEnter)
	if m.Status.IsError {
		t.Fatalf("unexpected error status %+v", m.Status)
	}

	task, err := repo.GetTask(context.Background(), ids[0])
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Reminder == nil || !task.Reminder.ScheduledAt.Equal(testNow.Add(2*time.Hour)) {
		t.Fatalf("unexpected reminder %+v", task.Reminder)
	}
	if task.Reminder.Repeat != 24*time.Hour || task.Reminder.Message != "Buy milk" {
		t.Fatalf("unexpected reminder %+v", task.Reminder)
	}

	m = press(t, m, keyRunes("r"), keyRunes("30m"), keyEnter)
	task, _ = repo.GetTask(context.Background(), ids[0])
	if !task.Reminder.ScheduledAt.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("expected short offset clamped to 1h, got %v", task.Reminder.ScheduledAt)
	}

	m = press(t, m, keyRunes("r"), keyRunes("1h -- call the bank first"), keyEnter)
	task, _ = repo.GetTask(context.Background(), ids[0])
	if task.Reminder == nil || task.Reminder.Message != "call the bank first" {
		t.Fatalf("expected custom reminder message, got %+v", task.Reminder)
	}

	m = press(t, m, keyRunes("r"), keyRunes("5 fortnights"), keyEnter)
	if !m.Status.IsError {
		t.Fatalf("expected validation error for bad unit, got %+v", m.Status)
	}

	m = press(t, m, keyRunes("r"), keyEnter)
	task, _ = repo.GetTask(context.Background(), ids[0])
	if task.Reminder != nil {
		t.Fatalf("expected blank input to clear the reminder, got %+v", task.Reminder)
	}
	if !strings.Contains(m.View(), "NoRem") {
		t.Fatalf("expected NoRem in view:\n%s", m.View())
	}
}

func TestEditAndCategoryPrefill(t *testing.T) {
	m, repo := setupModel(t)
	ids := seed(t, repo, [2]string{"draft", "misc"})
	m = press(t, m, refreshTickMsg{}, keyRunes("e"))
	if m.input.Value() != "draft" {
		t.Fatalf("expected edit prompt prefilled, got %q", m.input.Value())
	}
	m = press(t, m, keyRunes(" v2"), keyEnter, keyRunes(":"), keyRunes("category work"), keyEnter)

	task, err := repo.GetTask(context.Background(), ids[0])
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if task.Text != "draft v2" || task.Category != "work" {
		t.Fatalf("unexpected task %+v", task)
	}
}

func TestConcurrentDeleteRefreshesList(t *testing.T) {
	m, repo := setupModel(t)
	ids := seed(t, repo, [2]string{"a", ""}, [2]string{"b", ""})
	m = press(t, m, refreshTickMsg{})

	if err := repo.DeleteTask(context.Background(), ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	m = press(t, m, keyRunes("c"))
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "no longer exists") {
		t.Fatalf("expected not-found status, got %+v", m.Status)
	}
	if len(m.Entries()) != 1 || m.Entries()[0].Task.ID != ids[1] {
		t.Fatalf("expected list refreshed to remaining task, got %+v", m.Entries())
	}
}

func TestStorageFailureKeepsStaleView(t *testing.T) {
	m, repo := setupModel(t)
	seed(t, repo, [2]string{"a", ""})
	m = press(t, m, refreshTickMsg{})
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	m = press(t, m, refreshTickMsg{})
	if !m.Status.IsError || len(m.Entries()) != 1 {
		t.Fatalf("expected error status with stale list, got %+v entries=%d", m.Status, len(m.Entries()))
	}
	m = press(t, m, keyRunes("n"), keyRunes("b"), keyEnter)
	if !m.Status.IsError {
		t.Fatalf("expected storage error on add, got %+v", m.Status)
	}
}

func TestDetailHelpAndQuit(t *testing.T) {
	m, repo := setupModel(t)
	seed(t, repo, [2]string{"stretch", ""})
	m = press(t, m, refreshTickMsg{}, keyRunes("v"))
	if m.mode != modeDetail || !strings.Contains(m.View(), "stretch") {
		t.Fatalf("expected detail view, mode=%v", m.mode)
	}
	m = press(t, m, keyEsc)
	if m.mode != modeList {
		t.Fatalf("expected any key to close detail, mode=%v", m.mode)
	}

	m = press(t, m, keyRunes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "Commands") {
		t.Fatal("expected help visible")
	}

	next, cmd := m.Update(keyRunes("q"))
	if !next.(Model).Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestViewShowsHeaderAndRows(t *testing.T) {
	m, repo := setupModel(t)
	seed(t, repo, [2]string{"write report", "work"})
	m = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 30}, refreshTickMsg{})
	out := m.View()
	for _, want := range []string{"Current Tasks: 1 | Completed Tasks: 0", "Category Filter: All", "write report", "work", "NoRem"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in view:\n%s", want, out)
		}
	}
}
