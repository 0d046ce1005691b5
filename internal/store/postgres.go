package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mauflow/mauflow/pkg/mauflow"
)

// Postgres implements mauflow.Store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an established connection pool. The caller owns the pool
// and is responsible for closing it.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// schema holds every table the store needs. Statements are idempotent so
// EnsureSchema can run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
    id          UUID PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL,
    priority    TEXT NOT NULL,
    created_by  TEXT NOT NULL,
    assignee_id TEXT NOT NULL DEFAULT '',
    due_date    TIMESTAMPTZ,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS delegations (
    id           UUID PRIMARY KEY,
    task_id      UUID NOT NULL REFERENCES tasks(id),
    from_user_id TEXT NOT NULL,
    to_user_id   TEXT NOT NULL,
    status       TEXT NOT NULL,
    note         TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL,
    resolved_at  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS delegations_to_user_idx ON delegations (to_user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS comments (
    id         UUID PRIMARY KEY,
    task_id    UUID NOT NULL REFERENCES tasks(id),
    author_id  TEXT NOT NULL,
    body       TEXT NOT NULL,
    mentions   TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS comments_task_idx ON comments (task_id, created_at);

CREATE TABLE IF NOT EXISTS notifications (
    id         UUID PRIMARY KEY,
    user_id    TEXT NOT NULL,
    kind       TEXT NOT NULL,
    task_id    UUID NOT NULL,
    actor_id   TEXT NOT NULL,
    message    TEXT NOT NULL,
    read       BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS notifications_user_idx ON notifications (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS notification_preferences (
    user_id            TEXT PRIMARY KEY,
    delegation_enabled BOOLEAN NOT NULL,
    mention_enabled    BOOLEAN NOT NULL,
    comment_enabled    BOOLEAN NOT NULL,
    status_enabled     BOOLEAN NOT NULL,
    quiet_hours_start  TEXT NOT NULL DEFAULT '',
    quiet_hours_end    TEXT NOT NULL DEFAULT ''
);
`

// EnsureSchema creates the tables and indexes if they do not already exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

func (p *Postgres) CreateTask(ctx context.Context, task *mauflow.Task) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, created_by, assignee_id, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		task.CreatedBy, task.AssigneeID, task.DueDate, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

func (p *Postgres) GetTask(ctx context.Context, id uuid.UUID) (*mauflow.Task, error) {
	var task mauflow.Task
	err := p.pool.QueryRow(ctx, `
		SELECT id, title, description, status, priority, created_by, assignee_id, due_date, created_at, updated_at
		FROM tasks WHERE id = $1`, id).
		Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
			&task.CreatedBy, &task.AssigneeID, &task.DueDate, &task.CreatedAt, &task.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, mauflow.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return &task, nil
}

func (p *Postgres) UpdateTask(ctx context.Context, task *mauflow.Task) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5,
		    assignee_id = $6, due_date = $7, updated_at = $8
		WHERE id = $1`,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		task.AssigneeID, task.DueDate, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", task.ID, mauflow.ErrNotFound)
	}
	return nil
}

func (p *Postgres) ListTasks(ctx context.Context) ([]*mauflow.Task, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, title, description, status, priority, created_by, assignee_id, due_date, created_at, updated_at
		FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*mauflow.Task
	for rows.Next() {
		var task mauflow.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
			&task.CreatedBy, &task.AssigneeID, &task.DueDate, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, &task)
	}
	return tasks, rows.Err()
}

func (p *Postgres) CreateDelegation(ctx context.Context, d *mauflow.Delegation) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO delegations (id, task_id, from_user_id, to_user_id, status, note, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.TaskID, d.FromUserID, d.ToUserID, d.Status, d.Note, d.CreatedAt, d.ResolvedAt)
	if err != nil {
		return fmt.Errorf("creating delegation: %w", err)
	}
	return nil
}

func (p *Postgres) GetDelegation(ctx context.Context, id uuid.UUID) (*mauflow.Delegation, error) {
	var d mauflow.Delegation
	err := p.pool.QueryRow(ctx, `
		SELECT id, task_id, from_user_id, to_user_id, status, note, created_at, resolved_at
		FROM delegations WHERE id = $1`, id).
		Scan(&d.ID, &d.TaskID, &d.FromUserID, &d.ToUserID, &d.Status, &d.Note, &d.CreatedAt, &d.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("delegation %s: %w", id, mauflow.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting delegation: %w", err)
	}
	return &d, nil
}

func (p *Postgres) UpdateDelegation(ctx context.Context, d *mauflow.Delegation) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE delegations SET status = $2, resolved_at = $3 WHERE id = $1`,
		d.ID, d.Status, d.ResolvedAt)
	if err != nil {
		return fmt.Errorf("updating delegation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delegation %s: %w", d.ID, mauflow.ErrNotFound)
	}
	return nil
}

func (p *Postgres) ListDelegationsForUser(ctx context.Context, userID string) ([]*mauflow.Delegation, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, task_id, from_user_id, to_user_id, status, note, created_at, resolved_at
		FROM delegations WHERE to_user_id = $1 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing delegations: %w", err)
	}
	defer rows.Close()

	var out []*mauflow.Delegation
	for rows.Next() {
		var d mauflow.Delegation
		if err := rows.Scan(&d.ID, &d.TaskID, &d.FromUserID, &d.ToUserID, &d.Status, &d.Note, &d.CreatedAt, &d.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scanning delegation: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (p *Postgres) CreateComment(ctx context.Context, c *mauflow.Comment) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO comments (id, task_id, author_id, body, mentions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.TaskID, c.AuthorID, c.Body, c.Mentions, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}
	return nil
}

func (p *Postgres) ListCommentsByTask(ctx context.Context, taskID uuid.UUID) ([]*mauflow.Comment, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, task_id, author_id, body, mentions, created_at
		FROM comments WHERE task_id = $1 ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var out []*mauflow.Comment
	for rows.Next() {
		var c mauflow.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Body, &c.Mentions, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (p *Postgres) CreateNotification(ctx context.Context, n *mauflow.Notification) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, kind, task_id, actor_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.Kind, n.TaskID, n.ActorID, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

func (p *Postgres) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*mauflow.Notification, error) {
	query := `
		SELECT id, user_id, kind, task_id, actor_id, message, read, created_at
		FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND NOT read`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*mauflow.Notification
	for rows.Next() {
		var n mauflow.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.TaskID, &n.ActorID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (p *Postgres) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, mauflow.ErrNotFound)
	}
	return nil
}

func (p *Postgres) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := p.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

func (p *Postgres) GetPreferences(ctx context.Context, userID string) (*mauflow.NotificationPreferences, error) {
	var prefs mauflow.NotificationPreferences
	err := p.pool.QueryRow(ctx, `
		SELECT user_id, delegation_enabled, mention_enabled, comment_enabled, status_enabled, quiet_hours_start, quiet_hours_end
		FROM notification_preferences WHERE user_id = $1`, userID).
		Scan(&prefs.UserID, &prefs.DelegationEnabled, &prefs.MentionEnabled, &prefs.CommentEnabled,
			&prefs.StatusEnabled, &prefs.QuietHoursStart, &prefs.QuietHoursEnd)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("preferences for %s: %w", userID, mauflow.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting preferences: %w", err)
	}
	return &prefs, nil
}

func (p *Postgres) SavePreferences(ctx context.Context, prefs *mauflow.NotificationPreferences) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO notification_preferences (user_id, delegation_enabled, mention_enabled, comment_enabled, status_enabled, quiet_hours_start, quiet_hours_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
		    delegation_enabled = EXCLUDED.delegation_enabled,
		    mention_enabled    = EXCLUDED.mention_enabled,
		    comment_enabled    = EXCLUDED.comment_enabled,
		    status_enabled     = EXCLUDED.status_enabled,
		    quiet_hours_start  = EXCLUDED.quiet_hours_start,
		    quiet_hours_end    = EXCLUDED.quiet_hours_end`,
		prefs.UserID, prefs.DelegationEnabled, prefs.MentionEnabled, prefs.CommentEnabled,
		prefs.StatusEnabled, prefs.QuietHoursStart, prefs.QuietHoursEnd)
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}
