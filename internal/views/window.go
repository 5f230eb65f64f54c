package views

import (
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/sandeepkv93/todo/internal/model"
)

// Entry is a task together with its 1-based position in the unfiltered
// partition. The position is what the user types for "goto".
type Entry struct {
	Task   model.Task
	Number int
}

// Row is one task placed in the viewport. StartLine is relative to the top of
// the viewport; Lines may be cut short at the bottom edge.
type Row struct {
	Entry
	Index     int
	StartLine int
	Lines     []string
	Clipped   bool
}

type Window struct {
	Selected int
	Offset   int
	Total    int
	Rows     []Row
}

func (w Window) Empty() bool {
	return w.Total == 0
}

// Filter keeps the partition's tasks that match filter, preserving order.
func Filter(tasks []model.Task, filter model.CategoryFilter) []Entry {
	out := make([]Entry, 0, len(tasks))
	for i, task := range tasks {
		if filter.Match(task.Category) {
			out = append(out, Entry{Task: task, Number: i + 1})
		}
	}
	return out
}

// ClampSelection bounds selected to [0, n-1], or 0 when n is zero.
func ClampSelection(selected, n int) int {
	if n <= 0 || selected < 0 {
		return 0
	}
	if selected >= n {
		return n - 1
	}
	return selected
}

// WrapText greedily wraps text to width display columns. A line breaks at the
// last whitespace at or before the boundary, or hard-breaks when there is none.
// Empty text still occupies one line.
func WrapText(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, 1)
	pos := 0
	for pos < len(runes) {
		end := fit(runes, pos, width)
		if end < len(runes) {
			tmp := end
			for tmp > pos && !unicode.IsSpace(runes[tmp]) {
				tmp--
			}
			if tmp > pos {
				end = tmp
			}
		}
		lines = append(lines, string(runes[pos:end]))
		pos = end
		for pos < len(runes) && unicode.IsSpace(runes[pos]) {
			pos++
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// fit returns the furthest end such that runes[pos:end] spans at most width
// columns. At least one rune is always taken.
func fit(runes []rune, pos, width int) int {
	cols := 0
	end := pos
	for end < len(runes) {
		w := runewidth.RuneWidth(runes[end])
		if cols+w > width && end > pos {
			break
		}
		cols += w
		end++
	}
	return end
}

// Layout computes the visible slice of entries for a viewport of height lines
// with text wrapped to textWidth columns. The offset only moves forward task by
// task until the selected task's first line is inside the viewport.
func Layout(entries []Entry, selected, height, textWidth int) Window {
	win := Window{Total: len(entries)}
	if len(entries) == 0 {
		return win
	}
	win.Selected = ClampSelection(selected, len(entries))

	wrapped := make([][]string, len(entries))
	starts := make([]int, len(entries))
	line := 0
	for i, e := range entries {
		wrapped[i] = WrapText(e.Task.Text, textWidth)
		starts[i] = line
		line += len(wrapped[i])
	}

	for win.Offset < win.Selected && starts[win.Selected]-starts[win.Offset] >= height {
		win.Offset++
	}

	top := starts[win.Offset]
	for i := win.Offset; i < len(entries); i++ {
		start := starts[i] - top
		if start >= height {
			break
		}
		lines := wrapped[i]
		row := Row{Entry: entries[i], Index: i, StartLine: start, Lines: lines}
		if room := height - start; len(lines) > room {
			row.Lines = lines[:room]
			row.Clipped = true
		}
		win.Rows = append(win.Rows, row)
	}
	return win
}
