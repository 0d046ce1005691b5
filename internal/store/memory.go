// Package store provides persistence backends for tasks, delegations,
// comments, notifications, and preferences. Memory backs unit tests and
// local experimentation; Postgres is the production backend.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mauflow/mauflow/pkg/mauflow"
)

// Memory is an in-memory implementation of mauflow.Store.
// Safe for concurrent use. All reads and writes copy entities, so callers
// never alias the store's internal state.
type Memory struct {
	mu            sync.RWMutex
	tasks         map[uuid.UUID]*mauflow.Task
	delegations   map[uuid.UUID]*mauflow.Delegation
	comments      map[uuid.UUID]*mauflow.Comment
	notifications map[uuid.UUID]*mauflow.Notification
	preferences   map[string]*mauflow.NotificationPreferences
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tasks:         make(map[uuid.UUID]*mauflow.Task),
		delegations:   make(map[uuid.UUID]*mauflow.Delegation),
		comments:      make(map[uuid.UUID]*mauflow.Comment),
		notifications: make(map[uuid.UUID]*mauflow.Notification),
		preferences:   make(map[string]*mauflow.NotificationPreferences),
	}
}

// CreateTask stores a new task.
func (m *Memory) CreateTask(_ context.Context, task *mauflow.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tasks[task.ID]; exists {
		return fmt.Errorf("task %s already exists", task.ID)
	}
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

// GetTask returns the task with the given ID or mauflow.ErrNotFound.
func (m *Memory) GetTask(_ context.Context, id uuid.UUID) (*mauflow.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, mauflow.ErrNotFound)
	}
	cp := *task
	return &cp, nil
}

// UpdateTask replaces a stored task.
func (m *Memory) UpdateTask(_ context.Context, task *mauflow.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[task.ID]; !ok {
		return fmt.Errorf("task %s: %w", task.ID, mauflow.ErrNotFound)
	}
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

// ListTasks returns all tasks ordered by creation time, then ID.
func (m *Memory) ListTasks(_ context.Context) ([]*mauflow.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]*mauflow.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		cp := *task
		tasks = append(tasks, &cp)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID.String() < tasks[j].ID.String()
	})
	return tasks, nil
}

// CreateDelegation stores a new delegation.
func (m *Memory) CreateDelegation(_ context.Context, d *mauflow.Delegation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.delegations[d.ID]; exists {
		return fmt.Errorf("delegation %s already exists", d.ID)
	}
	cp := *d
	m.delegations[d.ID] = &cp
	return nil
}

// GetDelegation returns the delegation with the given ID or mauflow.ErrNotFound.
func (m *Memory) GetDelegation(_ context.Context, id uuid.UUID) (*mauflow.Delegation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.delegations[id]
	if !ok {
		return nil, fmt.Errorf("delegation %s: %w", id, mauflow.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

// UpdateDelegation replaces a stored delegation.
func (m *Memory) UpdateDelegation(_ context.Context, d *mauflow.Delegation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.delegations[d.ID]; !ok {
		return fmt.Errorf("delegation %s: %w", d.ID, mauflow.ErrNotFound)
	}
	cp := *d
	m.delegations[d.ID] = &cp
	return nil
}

// ListDelegationsForUser returns delegations addressed to the user, newest first.
func (m *Memory) ListDelegationsForUser(_ context.Context, userID string) ([]*mauflow.Delegation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*mauflow.Delegation
	for _, d := range m.delegations {
		if d.ToUserID == userID {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// CreateComment stores a new comment.
func (m *Memory) CreateComment(_ context.Context, c *mauflow.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.comments[c.ID]; exists {
		return fmt.Errorf("comment %s already exists", c.ID)
	}
	cp := *c
	cp.Mentions = append([]string(nil), c.Mentions...)
	m.comments[c.ID] = &cp
	return nil
}

// ListCommentsByTask returns a task's comments oldest first.
func (m *Memory) ListCommentsByTask(_ context.Context, taskID uuid.UUID) ([]*mauflow.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*mauflow.Comment
	for _, c := range m.comments {
		if c.TaskID == taskID {
			cp := *c
			cp.Mentions = append([]string(nil), c.Mentions...)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// CreateNotification stores a new notification.
func (m *Memory) CreateNotification(_ context.Context, n *mauflow.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.notifications[n.ID]; exists {
		return fmt.Errorf("notification %s already exists", n.ID)
	}
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

// ListNotifications returns a user's notifications newest first.
func (m *Memory) ListNotifications(_ context.Context, userID string, unreadOnly bool) ([]*mauflow.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*mauflow.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// MarkRead marks a single notification as read.
func (m *Memory) MarkRead(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok {
		return fmt.Errorf("notification %s: %w", id, mauflow.ErrNotFound)
	}
	n.Read = true
	return nil
}

// MarkAllRead marks all of a user's notifications as read.
func (m *Memory) MarkAllRead(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

// GetPreferences returns a user's saved preferences or mauflow.ErrNotFound.
func (m *Memory) GetPreferences(_ context.Context, userID string) (*mauflow.NotificationPreferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.preferences[userID]
	if !ok {
		return nil, fmt.Errorf("preferences for %s: %w", userID, mauflow.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

// SavePreferences stores a user's preferences, replacing any existing ones.
func (m *Memory) SavePreferences(_ context.Context, p *mauflow.NotificationPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	m.preferences[p.UserID] = &cp
	return nil
}
