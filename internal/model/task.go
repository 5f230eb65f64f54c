package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation marks caller input that violates a precondition. It is never
// fatal: the caller rejects the action and re-prompts.
var ErrValidation = errors.New("model: validation failed")

type TaskID int64

func (id TaskID) String() string {
	return fmt.Sprintf("%d", int64(id))
}

// Partition selects between current and completed tasks.
type Partition int

const (
	PartitionCurrent Partition = iota
	PartitionCompleted
)

func (p Partition) Completed() bool {
	return p == PartitionCompleted
}

func (p Partition) Toggle() Partition {
	if p == PartitionCompleted {
		return PartitionCurrent
	}
	return PartitionCompleted
}

func (p Partition) String() string {
	if p == PartitionCompleted {
		return "Completed"
	}
	return "Current"
}

type Task struct {
	ID          TaskID
	Text        string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Completed   bool
	CompletedAt *time.Time
	Reminder    *Reminder
}

func (t Task) Partition() Partition {
	if t.Completed {
		return PartitionCompleted
	}
	return PartitionCurrent
}

// ValidateText trims text and rejects empty input.
func ValidateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: task text is required", ErrValidation)
	}
	return trimmed, nil
}

func (t Task) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("%w: task id is required", ErrValidation)
	}
	if _, err := ValidateText(t.Text); err != nil {
		return err
	}
	if t.CreatedAt.IsZero() {
		return fmt.Errorf("%w: task created_at is required", ErrValidation)
	}
	if t.Completed && t.CompletedAt == nil {
		return fmt.Errorf("%w: completed_at is required when task is completed", ErrValidation)
	}
	if !t.Completed && t.CompletedAt != nil {
		return fmt.Errorf("%w: completed_at must be nil while task is current", ErrValidation)
	}
	return nil
}
