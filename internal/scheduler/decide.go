package scheduler

import (
	"time"

	"github.com/sandeepkv93/todo/internal/model"
)

// Outcome is the scheduling decision for one reminder at one instant.
type Outcome struct {
	Fire    bool
	Message string
	Next    model.ReminderState
}

var NotDue = Outcome{}

// Decide reports whether rem should fire at now and, if so, the state to
// persist afterwards. A recurring reminder advances from its previous
// scheduled time, never from now, so an overdue reminder catches up one
// interval per firing without drifting off its anchor.
func Decide(rem model.Reminder, now time.Time) Outcome {
	if rem.ScheduledAt.IsZero() || rem.ScheduledAt.After(now) {
		return NotDue
	}
	if rem.Triggered && !rem.Recurring() {
		return NotDue
	}
	if !rem.Recurring() {
		return Outcome{
			Fire:    true,
			Message: rem.Message,
			Next:    model.ReminderState{Triggered: true},
		}
	}
	return Outcome{
		Fire:    true,
		Message: rem.Message,
		Next: model.ReminderState{
			ScheduledAt: rem.ScheduledAt.Add(rem.Repeat),
			Triggered:   false,
		},
	}
}
