package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mauflow/mauflow/internal/retry"
	"github.com/mauflow/mauflow/internal/validate"
	"github.com/mauflow/mauflow/pkg/mauflow"
)

// Tasks creates and updates tasks directly, outside the delegation handshake.
type Tasks struct {
	store  mauflow.TaskStore
	exec   *retry.Executor
	logger mauflow.Logger

	now func() time.Time
}

// NewTasks creates a task service. A nil executor gets a default one that
// retries transient database errors.
func NewTasks(store mauflow.TaskStore, exec *retry.Executor, logger mauflow.Logger) *Tasks {
	if exec == nil {
		exec = retry.NewExecutor(retry.WithRetryIf(retry.IsTransientPostgresError))
	}
	return &Tasks{store: store, exec: exec, logger: logger, now: time.Now}
}

// Create adds a new task in status todo.
func (t *Tasks) Create(ctx context.Context, title, description, creator string, priority mauflow.TaskPriority, dueDate *time.Time) (*mauflow.Task, error) {
	if priority == "" {
		priority = mauflow.PriorityMedium
	}
	now := t.now().UTC()
	task := &mauflow.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      mauflow.TaskStatusTodo,
		Priority:    priority,
		CreatedBy:   creator,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validate.Task(task); err != nil {
		return nil, err
	}

	err := t.exec.Execute(ctx, func(ctx context.Context) error {
		return t.store.CreateTask(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("storing task: %w", err)
	}
	t.logger.Verbose("task %s created by %s", task.ID, creator)
	return task, nil
}

// Complete marks a task done.
func (t *Tasks) Complete(ctx context.Context, taskID uuid.UUID) (*mauflow.Task, error) {
	task, err := t.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == mauflow.TaskStatusDone {
		return nil, fmt.Errorf("task %s is already done: %w", taskID, mauflow.ErrInvalidTransition)
	}
	task.Status = mauflow.TaskStatusDone
	task.UpdatedAt = t.now().UTC()

	err = t.exec.Execute(ctx, func(ctx context.Context) error {
		return t.store.UpdateTask(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	return task, nil
}

// Get returns a single task.
func (t *Tasks) Get(ctx context.Context, taskID uuid.UUID) (*mauflow.Task, error) {
	return t.store.GetTask(ctx, taskID)
}

// List returns all tasks, oldest first.
func (t *Tasks) List(ctx context.Context) ([]*mauflow.Task, error) {
	return t.store.ListTasks(ctx)
}
