package update

import "github.com/sandeepkv93/todo/internal/model"

const DefaultPageSize = 10

// NavState is the selection state of the list: which partition is shown,
// the category filter, and the selected index into the filtered list.
// Every transition takes the current filtered length so the index never
// points past the end.
type NavState struct {
	View     model.Partition
	Filter   model.CategoryFilter
	Selected int
	PageSize int
}

func NewNavState(pageSize int) NavState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return NavState{View: model.PartitionCurrent, Filter: model.AllCategories, PageSize: pageSize}
}

// SwitchView toggles Current and Completed. The filter is kept even if the
// other partition has no task in that category.
func (s *NavState) SwitchView() {
	s.View = s.View.Toggle()
	s.Selected = 0
}

// SetFilter changes the category filter. The selected index is left alone and
// only re-bounded against the new filtered length, so the highlighted task
// may change.
func (s *NavState) SetFilter(f model.CategoryFilter, n int) {
	s.Filter = f
	s.Clamp(n)
}

func (s *NavState) Clamp(n int) {
	switch {
	case n <= 0 || s.Selected < 0:
		s.Selected = 0
	case s.Selected >= n:
		s.Selected = n - 1
	}
}

func (s *NavState) Up(n int)       { s.move(-1, n) }
func (s *NavState) Down(n int)     { s.move(1, n) }
func (s *NavState) PageUp(n int)   { s.move(-s.page(), n) }
func (s *NavState) PageDown(n int) { s.move(s.page(), n) }

func (s *NavState) Home(n int) {
	s.Selected = 0
	s.Clamp(n)
}

func (s *NavState) End(n int) {
	s.Selected = n - 1
	s.Clamp(n)
}

// Goto selects the task at 1-based position number in the unfiltered
// partition. It reports false, leaving the selection unchanged, when the
// number is out of range or the task is hidden by the filter.
func (s *NavState) Goto(number int, partition []model.Task) bool {
	if number < 1 || number > len(partition) {
		return false
	}
	target := partition[number-1].ID
	idx := 0
	for _, task := range partition {
		if !s.Filter.Match(task.Category) {
			continue
		}
		if task.ID == target {
			s.Selected = idx
			return true
		}
		idx++
	}
	return false
}

func (s *NavState) move(delta, n int) {
	s.Selected += delta
	s.Clamp(n)
}

func (s *NavState) page() int {
	if s.PageSize <= 0 {
		return DefaultPageSize
	}
	return s.PageSize
}
