package mauflow

import (
	"context"

	"github.com/google/uuid"
)

// TaskStore persists tasks.
type TaskStore interface {
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	// ListTasks returns all tasks in deterministic order (creation time,
	// then ID).
	ListTasks(ctx context.Context) ([]*Task, error)
}

// DelegationStore persists delegations.
type DelegationStore interface {
	CreateDelegation(ctx context.Context, d *Delegation) error
	GetDelegation(ctx context.Context, id uuid.UUID) (*Delegation, error)
	UpdateDelegation(ctx context.Context, d *Delegation) error
	// ListDelegationsForUser returns delegations where the user is the
	// recipient, newest first.
	ListDelegationsForUser(ctx context.Context, userID string) ([]*Delegation, error)
}

// CommentStore persists comments.
type CommentStore interface {
	CreateComment(ctx context.Context, c *Comment) error
	// ListCommentsByTask returns a task's comments oldest first.
	ListCommentsByTask(ctx context.Context, taskID uuid.UUID) ([]*Comment, error)
}

// NotificationStore persists notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *Notification) error
	// ListNotifications returns a user's notifications newest first.
	// When unreadOnly is true, read notifications are excluded.
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID string) error
}

// PreferenceStore persists per-user notification preferences.
type PreferenceStore interface {
	// GetPreferences returns ErrNotFound if the user has never saved
	// preferences; callers should fall back to defaults.
	GetPreferences(ctx context.Context, userID string) (*NotificationPreferences, error)
	SavePreferences(ctx context.Context, p *NotificationPreferences) error
}

// Store is the full persistence surface consumed by the workflow services.
type Store interface {
	TaskStore
	DelegationStore
	CommentStore
	NotificationStore
	PreferenceStore
}
