package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/notify"
	"github.com/sandeepkv93/todo/internal/storage"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultTitle        = "TODO"

	// DefaultNotifyTimeout bounds one notifier call.
	DefaultNotifyTimeout = 10 * time.Second
)

// ReminderStore is the part of the task store the firing loop needs.
type ReminderStore interface {
	ListActiveReminders(ctx context.Context) ([]storage.ReminderCandidate, error)
	AdvanceReminder(ctx context.Context, reminderID string, expected, next model.ReminderState) error
}

type CycleStats struct {
	Checked      int
	Fired        int
	Skipped      int
	Stale        int
	NotifyFailed int
}

// Loop is the background process: every interval it re-reads the store, fires
// due reminders through the notifier and writes back their next state.
type Loop struct {
	store    ReminderStore
	notifier notify.Notifier
	title    string
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	logger   *log.Logger
}

type LoopOption func(*Loop)

func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

func WithTitle(title string) LoopOption {
	return func(l *Loop) {
		if title != "" {
			l.title = title
		}
	}
}

// WithNotifyTimeout caps how long a single notification may take before the
// loop gives up on it and moves on.
func WithNotifyTimeout(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func WithClock(now func() time.Time) LoopOption {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

func WithLogger(logger *log.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLoop(store ReminderStore, notifier notify.Notifier, opts ...LoopOption) *Loop {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	l := &Loop{
		store:    store,
		notifier: notifier,
		title:    DefaultTitle,
		interval: DefaultPollInterval,
		timeout:  DefaultNotifyTimeout,
		now:      time.Now,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run polls until ctx is cancelled. Storage failures are logged and retried on
// the next tick; they never stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("firing loop started", "interval", l.interval)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		stats, err := l.RunOnce(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			l.logger.Warn("poll cycle failed, retrying next cycle", "err", err)
		case stats.Fired > 0 || stats.Skipped > 0 || stats.Stale > 0:
			l.logger.Debug("poll cycle", "checked", stats.Checked, "fired", stats.Fired,
				"skipped", stats.Skipped, "stale", stats.Stale, "notify_failed", stats.NotifyFailed)
		}

		select {
		case <-ctx.Done():
			l.logger.Info("firing loop stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single poll cycle against the current store state.
func (l *Loop) RunOnce(ctx context.Context) (CycleStats, error) {
	var stats CycleStats
	candidates, err := l.store.ListActiveReminders(ctx)
	if err != nil {
		return stats, err
	}
	now := l.now()
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Checked++
		if c.Err != nil {
			stats.Skipped++
			l.logger.Warn("skipping malformed reminder", "reminder", c.Reminder.ID, "task", c.Reminder.TaskID, "err", c.Err)
			continue
		}
		rem := c.Reminder
		if rem.Message == "" {
			rem.Message = c.TaskText
		}
		out := Decide(rem, now)
		if !out.Fire {
			continue
		}

		if err := l.send(ctx, notify.Notification{Title: l.title, Body: out.Message}); err != nil {
			stats.NotifyFailed++
			l.logger.Warn("notifier failed", "task", rem.TaskID, "err", err)
		}

		err := l.store.AdvanceReminder(ctx, rem.ID, rem.State(), out.Next)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			stats.Stale++
			l.logger.Info("reminder changed before write-back", "reminder", rem.ID, "task", rem.TaskID)
		case err != nil:
			return stats, err
		default:
			stats.Fired++
			l.logger.Info("reminder fired", "task", rem.TaskID, "message", out.Message, "next", out.Next.ScheduledAt)
		}
	}
	return stats, nil
}

// send runs the notifier with a deadline. A notifier that ignores its context
// is abandoned once the deadline passes; its result is discarded.
func (l *Loop) send(ctx context.Context, n notify.Notification) error {
	sendCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- l.notifier.Send(sendCtx, n)
	}()
	select {
	case err := <-done:
		return err
	case <-sendCtx.Done():
		return fmt.Errorf("%w: gave up after %s: %v", notify.ErrNotifierFailed, l.timeout, sendCtx.Err())
	}
}
