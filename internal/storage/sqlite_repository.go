package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/todo/internal/model"
	_ "modernc.org/sqlite"
)

const (
	// DriverCGO is github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"
	// DriverPure is modernc.org/sqlite.
	DriverPure = "sqlite"

	busyTimeoutMillis = 5000
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

type Option func(*SQLiteRepository)

// WithClock replaces time.Now for timestamps written by the repository.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) {
		if now != nil {
			r.now = now
		}
	}
}

func NewSQLiteRepository(db *sql.DB, opts ...Option) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	repo := &SQLiteRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

// OpenSQLite opens (creating if needed) the store at path and applies
// migrations. Any failure is reported as ErrStorageUnavailable.
func OpenSQLite(ctx context.Context, driver, path string, opts ...Option) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, unavailable("open", errors.New("db path is empty"))
	}
	dsn, err := DSN(driver, path)
	if err != nil {
		return nil, unavailable("open", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, unavailable("create db directory", err)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, unavailable("open sqlite", err)
	}
	// One connection keeps every logical operation on a single SQLite handle;
	// cross-process exclusion comes from SQLite's own file locks.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, unavailable("ping sqlite", err)
	}
	if err := MigrateUp(ctx, db); err != nil {
		_ = db.Close()
		return nil, unavailable("migrate", err)
	}
	repo, err := NewSQLiteRepository(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, unavailable("open", err)
	}
	return repo, nil
}

// DSN builds a file URI with WAL, a busy timeout, foreign keys and immediate
// write transactions for the given driver.
func DSN(driver, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: abs}
	q := url.Values{}
	switch driver {
	case DriverCGO:
		q.Set("_busy_timeout", strconv.Itoa(busyTimeoutMillis))
		q.Set("_foreign_keys", "on")
		q.Set("_journal_mode", "WAL")
		q.Set("_txlock", "immediate")
	case DriverPure:
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMillis))
		q.Add("_pragma", "foreign_keys(1)")
		q.Add("_pragma", "journal_mode(WAL)")
		q.Set("_txlock", "immediate")
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", driver)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Second)
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, text, category string) (model.TaskID, error) {
	trimmed, err := model.ValidateText(text)
	if err != nil {
		return 0, err
	}
	now := r.timestamp().Unix()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (text, category, created_at, updated_at, completed, completed_at)
		VALUES (?, ?, ?, ?, 0, NULL)`,
		trimmed, strings.TrimSpace(category), now, now,
	)
	if err != nil {
		return 0, unavailable("create task", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("create task", err)
	}
	return model.TaskID(id), nil
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id model.TaskID) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = ?`, int64(id))
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, unavailable("get task", err)
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateText(ctx context.Context, id model.TaskID, text string) error {
	trimmed, err := model.ValidateText(text)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET text = ?, updated_at = ? WHERE id = ?`,
		trimmed, r.timestamp().Unix(), int64(id))
	if err != nil {
		return unavailable("update text", err)
	}
	return unavailable("update text", checkRowsAffected(res))
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, id model.TaskID, category string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET category = ?, updated_at = ? WHERE id = ?`,
		strings.TrimSpace(category), r.timestamp().Unix(), int64(id))
	if err != nil {
		return unavailable("update category", err)
	}
	return unavailable("update category", checkRowsAffected(res))
}

// Complete marks a task completed. The first completion time wins; repeated
// calls succeed without touching completed_at.
func (r *SQLiteRepository) Complete(ctx context.Context, id model.TaskID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET completed = 1, completed_at = COALESCE(completed_at, ?)
		WHERE id = ?`,
		r.timestamp().Unix(), int64(id))
	if err != nil {
		return unavailable("complete task", err)
	}
	return unavailable("complete task", checkRowsAffected(res))
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id model.TaskID) error {
	return r.withTx(ctx, "delete task", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reminders WHERE task_id = ?`, int64(id)); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, int64(id))
		if err != nil {
			return err
		}
		return checkRowsAffected(res)
	})
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	query := taskSelect + ` WHERE t.completed = ?`
	args := []any{boolInt(filter.Partition.Completed())}
	if !filter.Category.IsAll() {
		query += ` AND t.category = ?`
		args = append(args, filter.Category.Category)
	}
	query += ` ORDER BY t.created_at ASC, t.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list tasks", err)
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, unavailable("list tasks", scanErr)
		}
		out = append(out, task)
	}
	return out, unavailable("list tasks", rows.Err())
}

func (r *SQLiteRepository) DistinctCategories(ctx context.Context, partition model.Partition) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM tasks
		WHERE completed = ? AND category <> ''
		ORDER BY category ASC`, boolInt(partition.Completed()))
	if err != nil {
		return nil, unavailable("distinct categories", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, unavailable("distinct categories", err)
		}
		out = append(out, category)
	}
	return out, unavailable("distinct categories", rows.Err())
}

func (r *SQLiteRepository) Counts(ctx context.Context) (Counts, error) {
	var out Counts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN completed = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN completed = 1 THEN 1 ELSE 0 END), 0)
		FROM tasks`).Scan(&out.Current, &out.Completed)
	if err != nil {
		return Counts{}, unavailable("count tasks", err)
	}
	return out, nil
}

// SetReminder replaces the task's active reminder. The previous one stays in
// the table as inactive history. A zero scheduledAt only clears.
func (r *SQLiteRepository) SetReminder(ctx context.Context, id model.TaskID, scheduledAt time.Time, repeat time.Duration, message string) error {
	if repeat < 0 {
		return fmt.Errorf("%w: negative repeat interval", model.ErrValidation)
	}
	return r.withTx(ctx, "set reminder", func(tx *sql.Tx) error {
		var text string
		err := tx.QueryRowContext(ctx, `SELECT text FROM tasks WHERE id = ?`, int64(id)).Scan(&text)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE reminders SET active = 0 WHERE task_id = ? AND active = 1`, int64(id)); err != nil {
			return err
		}
		if scheduledAt.IsZero() {
			return nil
		}
		msg := strings.TrimSpace(message)
		if msg == "" {
			msg = text
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reminders (id, task_id, scheduled_at, triggered, repeat_interval, message, active, created_at)
			VALUES (?, ?, ?, 0, ?, ?, 1, ?)`,
			uuid.NewString(), int64(id), scheduledAt.Unix(), int64(repeat/time.Second), msg, r.timestamp().Unix(),
		)
		return err
	})
}

// ReminderHistory lists every reminder ever set on the task, oldest first.
// The task row drives the read, so an unknown id is ErrNotFound rather than an
// empty history.
func (r *SQLiteRepository) ReminderHistory(ctx context.Context, id model.TaskID) ([]model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.scheduled_at, r.triggered, r.repeat_interval, r.message, r.created_at
		FROM tasks t
		LEFT JOIN reminders r ON r.task_id = t.id
		WHERE t.id = ?
		ORDER BY r.created_at ASC, r.rowid ASC`, int64(id))
	if err != nil {
		return nil, unavailable("reminder history", err)
	}
	defer rows.Close()

	found := false
	out := make([]model.Reminder, 0)
	for rows.Next() {
		found = true
		var (
			remID, message                  sql.NullString
			sched, trig, repeat, createdSec sql.NullInt64
		)
		if err := rows.Scan(&remID, &sched, &trig, &repeat, &message, &createdSec); err != nil {
			return nil, unavailable("reminder history", err)
		}
		if !remID.Valid {
			continue
		}
		out = append(out, model.Reminder{
			ID:          remID.String,
			TaskID:      id,
			ScheduledAt: fromUnix(sched.Int64),
			Triggered:   trig.Int64 == 1,
			Repeat:      time.Duration(repeat.Int64) * time.Second,
			Message:     message.String,
			CreatedAt:   fromUnix(createdSec.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("reminder history", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return out, nil
}

// ListActiveReminders returns the active reminders of current tasks. Rows that
// cannot be decoded come back with Err set instead of failing the whole read.
func (r *SQLiteRepository) ListActiveReminders(ctx context.Context) ([]ReminderCandidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.task_id, r.scheduled_at, r.triggered, r.repeat_interval, r.message, r.created_at, t.text
		FROM reminders r
		JOIN tasks t ON t.id = r.task_id
		WHERE r.active = 1 AND r.scheduled_at <> 0 AND t.completed = 0
		ORDER BY r.scheduled_at ASC, r.task_id ASC`)
	if err != nil {
		return nil, unavailable("list reminders", err)
	}
	defer rows.Close()

	out := make([]ReminderCandidate, 0)
	for rows.Next() {
		var (
			id, message, text               sql.NullString
			taskID                          int64
			sched, trig, repeat, createdRaw any
		)
		if err := rows.Scan(&id, &taskID, &sched, &trig, &repeat, &message, &createdRaw, &text); err != nil {
			return nil, unavailable("list reminders", err)
		}
		out = append(out, decodeCandidate(id, taskID, sched, trig, repeat, createdRaw, message, text))
	}
	return out, unavailable("list reminders", rows.Err())
}

// AdvanceReminder writes the firing loop's next state, but only if the
// reminder is still active with the state the loop read. Otherwise the task
// was deleted or the reminder replaced, and ErrNotFound is returned.
func (r *SQLiteRepository) AdvanceReminder(ctx context.Context, reminderID string, expected, next model.ReminderState) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET scheduled_at = ?, triggered = ?
		WHERE id = ? AND active = 1 AND scheduled_at = ? AND triggered = ?
		  AND EXISTS (SELECT 1 FROM tasks WHERE tasks.id = reminders.task_id)`,
		unixOrZero(next.ScheduledAt), boolInt(next.Triggered),
		reminderID, unixOrZero(expected.ScheduledAt), boolInt(expected.Triggered),
	)
	if err != nil {
		return unavailable("advance reminder", err)
	}
	return unavailable("advance reminder", checkRowsAffected(res))
}

func (r *SQLiteRepository) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return unavailable(op, err)
	}
	return unavailable(op, tx.Commit())
}

const taskSelect = `
	SELECT t.id, t.text, t.category, t.created_at, t.updated_at, t.completed, t.completed_at,
	       r.id, r.scheduled_at, r.triggered, r.repeat_interval, r.message, r.created_at
	FROM tasks t
	LEFT JOIN reminders r ON r.task_id = t.id AND r.active = 1`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var (
		out                          model.Task
		id, created, updated, done   int64
		completedAt                  sql.NullInt64
		remID, remMessage            sql.NullString
		remSched, remTrig, remRepeat sql.NullInt64
		remCreated                   sql.NullInt64
	)
	if err := s.Scan(&id, &out.Text, &out.Category, &created, &updated, &done, &completedAt,
		&remID, &remSched, &remTrig, &remRepeat, &remMessage, &remCreated); err != nil {
		return model.Task{}, err
	}
	out.ID = model.TaskID(id)
	out.CreatedAt = fromUnix(created)
	out.UpdatedAt = fromUnix(updated)
	out.Completed = done == 1
	if completedAt.Valid {
		at := fromUnix(completedAt.Int64)
		out.CompletedAt = &at
	}
	if remID.Valid {
		out.Reminder = &model.Reminder{
			ID:          remID.String,
			TaskID:      out.ID,
			ScheduledAt: fromUnix(remSched.Int64),
			Triggered:   remTrig.Int64 == 1,
			Repeat:      time.Duration(remRepeat.Int64) * time.Second,
			Message:     remMessage.String,
			CreatedAt:   fromUnix(remCreated.Int64),
		}
	}
	return out, nil
}

func decodeCandidate(rawID sql.NullString, taskID int64, sched, trig, repeat, created any, message, text sql.NullString) ReminderCandidate {
	id := rawID.String
	out := ReminderCandidate{TaskText: text.String}
	if !rawID.Valid || strings.TrimSpace(id) == "" {
		out.Reminder = model.Reminder{TaskID: model.TaskID(taskID)}
		out.Err = fmt.Errorf("reminder on task %d: missing id", taskID)
		return out
	}
	fields := []struct {
		name string
		raw  any
		dst  *int64
	}{
		{"scheduled_at", sched, new(int64)},
		{"triggered", trig, new(int64)},
		{"repeat_interval", repeat, new(int64)},
		{"created_at", created, new(int64)},
	}
	for _, f := range fields {
		v, err := asInt64(f.raw)
		if err != nil {
			out.Reminder = model.Reminder{ID: id, TaskID: model.TaskID(taskID)}
			out.Err = fmt.Errorf("reminder %s: column %s: %w", id, f.name, err)
			return out
		}
		*f.dst = v
	}
	out.Reminder = model.Reminder{
		ID:          id,
		TaskID:      model.TaskID(taskID),
		ScheduledAt: fromUnix(*fields[0].dst),
		Triggered:   *fields[1].dst == 1,
		Repeat:      time.Duration(*fields[2].dst) * time.Second,
		Message:     message.String,
		CreatedAt:   fromUnix(*fields[3].dst),
	}
	if err := out.Reminder.Validate(); err != nil {
		out.Err = fmt.Errorf("reminder %s: %w", id, err)
	}
	return out
}

func asInt64(v any) (int64, error) {
	switch typed := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return typed, nil
	case float64:
		return int64(typed), nil
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(typed)), 10, 64)
	case string:
		return strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected value %v (%T)", v, v)
	}
}

func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func unixOrZero(v time.Time) int64 {
	if v.IsZero() {
		return 0
	}
	return v.Unix()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
