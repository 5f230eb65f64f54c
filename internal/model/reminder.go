package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinReminderOffset = time.Hour
	MaxReminderOffset = 7 * 24 * time.Hour
)

// Reminder is the scheduled notification attached to a task. A zero
// ScheduledAt means the reminder is inactive.
type Reminder struct {
	ID          string
	TaskID      TaskID
	ScheduledAt time.Time
	Triggered   bool
	Repeat      time.Duration
	Message     string
	CreatedAt   time.Time
}

// ReminderState is the part of a reminder the firing loop advances.
type ReminderState struct {
	ScheduledAt time.Time
	Triggered   bool
}

func (r Reminder) State() ReminderState {
	return ReminderState{ScheduledAt: r.ScheduledAt, Triggered: r.Triggered}
}

func (r Reminder) Active() bool {
	return !r.ScheduledAt.IsZero()
}

func (r Reminder) Recurring() bool {
	return r.Repeat > 0
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: reminder id is required", ErrValidation)
	}
	if r.TaskID <= 0 {
		return fmt.Errorf("%w: reminder task_id is required", ErrValidation)
	}
	if r.Repeat < 0 {
		return fmt.Errorf("%w: reminder repeat interval is negative", ErrValidation)
	}
	if !r.ScheduledAt.IsZero() && r.ScheduledAt.Unix() <= 0 {
		return fmt.Errorf("%w: reminder scheduled_time %d out of range", ErrValidation, r.ScheduledAt.Unix())
	}
	return nil
}

// ClampOffset bounds a relative reminder offset to [1h, 7d]. Zero or negative
// offsets mean "no reminder" and return zero.
func ClampOffset(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	if d < MinReminderOffset {
		return MinReminderOffset
	}
	if d > MaxReminderOffset {
		return MaxReminderOffset
	}
	return d
}

// ReminderRequest is a user's "set reminder" input before it is anchored to a
// clock.
type ReminderRequest struct {
	Offset  time.Duration
	Repeat  time.Duration
	Message string
}

func (r ReminderRequest) Clears() bool {
	return ClampOffset(r.Offset) == 0
}

// ScheduledAt anchors the clamped offset to now, truncated to whole seconds.
// It returns the zero time when the request clears the reminder.
func (r ReminderRequest) ScheduledAt(now time.Time) time.Time {
	offset := ClampOffset(r.Offset)
	if offset == 0 {
		return time.Time{}
	}
	return now.Add(offset).Truncate(time.Second)
}

func (r ReminderRequest) RepeatInterval() time.Duration {
	return ClampOffset(r.Repeat)
}

// ParseOffset reads a quantity with a unit: s, m, h or d ("90m", "2 h", "1d").
// A bare number is taken as hours. Blank input is zero.
func ParseOffset(raw string) (time.Duration, error) {
	in := strings.ToLower(strings.TrimSpace(raw))
	if in == "" {
		return 0, nil
	}
	i := 0
	for i < len(in) && in[i] >= '0' && in[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("%w: reminder quantity %q is not a number", ErrValidation, raw)
	}
	qty, err := strconv.ParseInt(in[:i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: reminder quantity %q: %v", ErrValidation, raw, err)
	}
	unit := strings.TrimSpace(in[i:])
	var per time.Duration
	switch unit {
	case "s", "sec", "secs", "second", "seconds":
		per = time.Second
	case "m", "min", "mins", "minute", "minutes":
		per = time.Minute
	case "", "h", "hr", "hrs", "hour", "hours":
		per = time.Hour
	case "d", "day", "days":
		per = 24 * time.Hour
	default:
		return 0, fmt.Errorf("%w: unknown reminder unit %q", ErrValidation, unit)
	}
	if qty > int64(MaxReminderOffset/per)+1 {
		qty = int64(MaxReminderOffset/per) + 1
	}
	return time.Duration(qty) * per, nil
}

// ParseReminderRequest reads "<offset> [every <interval>] [-- <message>]".
// Without a message the task text is used when the reminder fires.
func ParseReminderRequest(raw string) (ReminderRequest, error) {
	var req ReminderRequest
	in := raw
	if idx := strings.Index(in, "--"); idx >= 0 {
		req.Message = strings.TrimSpace(in[idx+len("--"):])
		in = in[:idx]
	}

	fields := strings.Fields(in)
	offsetFields := fields
	for i, f := range fields {
		if !strings.EqualFold(f, "every") {
			continue
		}
		offsetFields = fields[:i]
		repeatPart := strings.Join(fields[i+1:], " ")
		if repeatPart == "" {
			return ReminderRequest{}, fmt.Errorf("%w: repeat interval missing after \"every\"", ErrValidation)
		}
		repeat, err := ParseOffset(repeatPart)
		if err != nil {
			return ReminderRequest{}, err
		}
		req.Repeat = repeat
		break
	}
	offset, err := ParseOffset(strings.Join(offsetFields, " "))
	if err != nil {
		return ReminderRequest{}, err
	}
	req.Offset = offset
	return req, nil
}
