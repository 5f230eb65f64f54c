package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
)

const (
	numberWidth   = 5
	reminderWidth = 17
	categoryWidth = 13
	dateWidth     = 16
	minTextWidth  = 10

	dateLayout = "2006-01-02 15:04"
	noReminder = "NoRem"
)

// TextWidth is the column space left for task text in a list of the given
// inner width.
func TextWidth(width int) int {
	w := width - numberWidth - reminderWidth - categoryWidth - dateWidth - 3
	if w < minTextWidth {
		return minTextWidth
	}
	return w
}

type HeaderData struct {
	Counts storage.Counts
	Filter model.CategoryFilter
}

func RenderHeader(data HeaderData) string {
	return fmt.Sprintf("TODO\nCurrent Tasks: %d | Completed Tasks: %d\nCategory Filter: %s",
		data.Counts.Current, data.Counts.Completed, data.Filter)
}

type ListData struct {
	View   model.Partition
	Window Window
	Width  int
	Loc    *time.Location
}

// RenderList draws the column titles followed by the window's rows.
func RenderList(data ListData) string {
	textWidth := TextWidth(data.Width)
	dateTitle := "Added on"
	if data.View.Completed() {
		dateTitle = "Completed on"
	}
	var b strings.Builder
	b.WriteString(columnStyle.Render(joinColumns(textWidth, "#", data.View.String()+" Tasks", "Reminder", "Category", dateTitle)))

	if data.Window.Empty() {
		b.WriteString("\n(no tasks)")
		return b.String()
	}
	for _, row := range data.Window.Rows {
		for i, line := range row.Lines {
			var text string
			if i == 0 {
				text = joinColumns(textWidth,
					fmt.Sprintf("%d", row.Number),
					line,
					reminderLabel(row.Task, data.Loc),
					row.Task.Category,
					taskDate(row.Task, data.Loc),
				)
			} else {
				text = joinColumns(textWidth, "", line, "", "", "")
			}
			if row.Index == data.Window.Selected {
				text = selectedStyle.Render(text)
			}
			b.WriteString("\n")
			b.WriteString(text)
		}
	}
	return b.String()
}

func joinColumns(textWidth int, number, text, reminder, category, date string) string {
	return runewidth.FillRight(runewidth.Truncate(number, numberWidth, ""), numberWidth) +
		runewidth.FillRight(runewidth.Truncate(text, textWidth, ""), textWidth) + " " +
		runewidth.FillRight(reminder, reminderWidth) + " " +
		runewidth.FillRight(runewidth.Truncate(category, categoryWidth-1, "…"), categoryWidth) + " " +
		date
}

func reminderLabel(task model.Task, loc *time.Location) string {
	if task.Reminder == nil || !task.Reminder.Active() {
		return noReminder
	}
	return inLocation(task.Reminder.ScheduledAt, loc).Format(dateLayout)
}

func taskDate(task model.Task, loc *time.Location) string {
	at := task.CreatedAt
	if task.Completed && task.CompletedAt != nil {
		at = *task.CompletedAt
	}
	if at.IsZero() {
		return ""
	}
	return inLocation(at, loc).Format(dateLayout)
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t.Local()
	}
	return t.In(loc)
}

type FilterMenuData struct {
	Options []model.CategoryFilter
	Cursor  int
}

func RenderFilterMenu(data FilterMenuData) string {
	var b strings.Builder
	b.WriteString("Filter by category (enter to apply, esc to cancel)")
	for i, opt := range data.Options {
		line := "  " + opt.String()
		if i == data.Cursor {
			line = selectedStyle.Render("> " + opt.String())
		}
		b.WriteString("\n" + line)
	}
	return b.String()
}

type TaskDetailData struct {
	Task    model.Task
	History []model.Reminder
	Loc     *time.Location
}

// RenderTaskDetail renders the selected task and its reminder history as
// markdown.
func RenderTaskDetail(data TaskDetailData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Task %d\n\n%s\n\n", data.Task.ID, data.Task.Text)
	category := data.Task.Category
	if category == "" {
		category = "(none)"
	}
	fmt.Fprintf(&b, "- **Category:** %s\n", category)
	fmt.Fprintf(&b, "- **Added:** %s\n", inLocation(data.Task.CreatedAt, data.Loc).Format(dateLayout))
	if data.Task.CompletedAt != nil {
		fmt.Fprintf(&b, "- **Completed:** %s\n", inLocation(*data.Task.CompletedAt, data.Loc).Format(dateLayout))
	}
	fmt.Fprintf(&b, "- **Reminder:** %s\n", reminderLabel(data.Task, data.Loc))
	if len(data.History) == 0 {
		return b.String()
	}
	b.WriteString("\n### Reminders\n\n| Scheduled | Repeat | Message |\n|---|---|---|\n")
	for _, rem := range data.History {
		sched := noReminder
		if rem.Active() {
			sched = inLocation(rem.ScheduledAt, data.Loc).Format(dateLayout)
		} else if rem.Triggered {
			sched = "fired"
		}
		repeat := "-"
		if rem.Recurring() {
			repeat = rem.Repeat.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", sched, repeat, strings.ReplaceAll(rem.Message, "|", `\|`))
	}
	return b.String()
}
