package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/todo/internal/model"
)

var (
	ErrNotFound = errors.New("storage: not found")
	// ErrStorageUnavailable wraps every failure of the underlying database.
	ErrStorageUnavailable = errors.New("storage: unavailable")
)

type Repository interface {
	CreateTask(ctx context.Context, text, category string) (model.TaskID, error)
	GetTask(ctx context.Context, id model.TaskID) (model.Task, error)
	UpdateText(ctx context.Context, id model.TaskID, text string) error
	UpdateCategory(ctx context.Context, id model.TaskID, category string) error
	Complete(ctx context.Context, id model.TaskID) error
	DeleteTask(ctx context.Context, id model.TaskID) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error)
	DistinctCategories(ctx context.Context, partition model.Partition) ([]string, error)
	Counts(ctx context.Context) (Counts, error)

	SetReminder(ctx context.Context, id model.TaskID, scheduledAt time.Time, repeat time.Duration, message string) error
	ReminderHistory(ctx context.Context, id model.TaskID) ([]model.Reminder, error)
	ListActiveReminders(ctx context.Context) ([]ReminderCandidate, error)
	AdvanceReminder(ctx context.Context, reminderID string, expected, next model.ReminderState) error
}

type unavailableError struct {
	op  string
	err error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.op, e.err)
}

func (e *unavailableError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.err}
}

// unavailable tags a database failure, leaving domain errors untouched.
func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, model.ErrValidation) || errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return &unavailableError{op: op, err: err}
}
