package storage

import "github.com/sandeepkv93/todo/internal/model"

type TaskListFilter struct {
	Partition model.Partition
	Category  model.CategoryFilter
}

type Counts struct {
	Current   int
	Completed int
}

// ReminderCandidate is an active reminder read for the firing loop. Err is set
// when the stored row could not be decoded; such candidates must be skipped.
type ReminderCandidate struct {
	Reminder model.Reminder
	TaskText string
	Err      error
}
