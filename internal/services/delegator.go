// Package services implements the task workflows: delegating tasks between
// users and commenting on them. Store writes go through a retry executor so
// transient database failures do not surface to users.
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

// Notifier delivers a notification for a user. Satisfied by notify.Service.
type Notifier interface {
	Notify(ctx context.Context, n *mauflow.Notification) error
}

// Delegator manages the delegation handshake.
//
// Lifecycle: pending -> accepted -> completed, or pending -> declined.
// Only the recipient may resolve a delegation.
type Delegator struct {
	store    mauflow.Store
	notifier Notifier
	exec     *retry.Executor
	logger   mauflow.Logger

	now func() time.Time
}

// NewDelegator creates a Delegator. A nil executor gets a default one that
// retries transient database errors.
func NewDelegator(store mauflow.Store, notifier Notifier, exec *retry.Executor, logger mauflow.Logger) *Delegator {
	if exec == nil {
		exec = retry.NewExecutor(retry.WithRetryIf(retry.IsTransientPostgresError))
	}
	return &Delegator{
		store:    store,
		notifier: notifier,
		exec:     exec,
		logger:   logger,
		now:      time.Now,
	}
}

// Create hands a task from one user to another. The delegation starts
// pending; the recipient is notified.
func (d *Delegator) Create(ctx context.Context, taskID uuid.UUID, fromUserID, toUserID, note string) (*mauflow.Delegation, error) {
	delegation := &mauflow.Delegation{
		ID:         uuid.New(),
		TaskID:     taskID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     mauflow.DelegationPending,
		Note:       note,
		CreatedAt:  d.now().UTC(),
	}
	if err := validate.Delegation(delegation); err != nil {
		return nil, err
	}

	task, err := d.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	err = d.exec.Execute(ctx, func(ctx context.Context) error {
		return d.store.CreateDelegation(ctx, delegation)
	})
	if err != nil {
		return nil, fmt.Errorf("storing delegation: %w", err)
	}
	d.logger.Verbose("delegation %s created: %s -> %s for task %q", delegation.ID, fromUserID, toUserID, task.Title)

	d.notify(ctx, &mauflow.Notification{
		UserID:  toUserID,
		Kind:    mauflow.NotifyDelegation,
		TaskID:  taskID,
		ActorID: fromUserID,
		Message: fmt.Sprintf("%s delegated %q to you", fromUserID, task.Title),
	})
	return delegation, nil
}

// Accept moves a pending delegation to accepted and assigns the task to the
// recipient. Only the recipient may accept.
func (d *Delegator) Accept(ctx context.Context, delegationID uuid.UUID, actingUser string) (*mauflow.Delegation, error) {
	delegation, err := d.resolve(ctx, delegationID, actingUser, mauflow.DelegationPending, mauflow.DelegationAccepted)
	if err != nil {
		return nil, err
	}

	task, err := d.store.GetTask(ctx, delegation.TaskID)
	if err != nil {
		return nil, err
	}
	task.AssigneeID = actingUser
	if task.Status == mauflow.TaskStatusTodo {
		task.Status = mauflow.TaskStatusDoing
	}
	task.UpdatedAt = d.now().UTC()
	err = d.exec.Execute(ctx, func(ctx context.Context) error {
		return d.store.UpdateTask(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("assigning task: %w", err)
	}

	d.notify(ctx, &mauflow.Notification{
		UserID:  delegation.FromUserID,
		Kind:    mauflow.NotifyStatus,
		TaskID:  delegation.TaskID,
		ActorID: actingUser,
		Message: fmt.Sprintf("%s accepted %q", actingUser, task.Title),
	})
	return delegation, nil
}

// Decline moves a pending delegation to declined. Only the recipient may
// decline.
func (d *Delegator) Decline(ctx context.Context, delegationID uuid.UUID, actingUser string) (*mauflow.Delegation, error) {
	delegation, err := d.resolve(ctx, delegationID, actingUser, mauflow.DelegationPending, mauflow.DelegationDeclined)
	if err != nil {
		return nil, err
	}

	d.notify(ctx, &mauflow.Notification{
		UserID:  delegation.FromUserID,
		Kind:    mauflow.NotifyStatus,
		TaskID:  delegation.TaskID,
		ActorID: actingUser,
		Message: fmt.Sprintf("%s declined your delegation", actingUser),
	})
	return delegation, nil
}

// Complete moves an accepted delegation to completed and marks the task done.
// Only the recipient may complete.
func (d *Delegator) Complete(ctx context.Context, delegationID uuid.UUID, actingUser string) (*mauflow.Delegation, error) {
	delegation, err := d.resolve(ctx, delegationID, actingUser, mauflow.DelegationAccepted, mauflow.DelegationCompleted)
	if err != nil {
		return nil, err
	}

	task, err := d.store.GetTask(ctx, delegation.TaskID)
	if err != nil {
		return nil, err
	}
	task.Status = mauflow.TaskStatusDone
	task.UpdatedAt = d.now().UTC()
	err = d.exec.Execute(ctx, func(ctx context.Context) error {
		return d.store.UpdateTask(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("completing task: %w", err)
	}

	d.notify(ctx, &mauflow.Notification{
		UserID:  delegation.FromUserID,
		Kind:    mauflow.NotifyStatus,
		TaskID:  delegation.TaskID,
		ActorID: actingUser,
		Message: fmt.Sprintf("%s completed %q", actingUser, task.Title),
	})
	return delegation, nil
}

// ListForUser returns the delegations addressed to a user, newest first.
func (d *Delegator) ListForUser(ctx context.Context, userID string) ([]*mauflow.Delegation, error) {
	return d.store.ListDelegationsForUser(ctx, userID)
}

// resolve performs the shared recipient and status checks, then persists the
// transition.
func (d *Delegator) resolve(ctx context.Context, delegationID uuid.UUID, actingUser string, from, to mauflow.DelegationStatus) (*mauflow.Delegation, error) {
	delegation, err := d.store.GetDelegation(ctx, delegationID)
	if err != nil {
		return nil, err
	}
	if delegation.ToUserID != actingUser {
		return nil, fmt.Errorf("user %s is not the recipient of delegation %s: %w",
			actingUser, delegationID, mauflow.ErrNotRecipient)
	}
	if delegation.Status != from {
		return nil, fmt.Errorf("delegation %s is %s, cannot move to %s: %w",
			delegationID, delegation.Status, to, mauflow.ErrInvalidTransition)
	}

	resolvedAt := d.now().UTC()
	delegation.Status = to
	delegation.ResolvedAt = &resolvedAt
	err = d.exec.Execute(ctx, func(ctx context.Context) error {
		return d.store.UpdateDelegation(ctx, delegation)
	})
	if err != nil {
		return nil, fmt.Errorf("updating delegation: %w", err)
	}
	d.logger.Verbose("delegation %s moved to %s by %s", delegationID, to, actingUser)
	return delegation, nil
}

func (d *Delegator) notify(ctx context.Context, n *mauflow.Notification) {
	if err := d.notifier.Notify(ctx, n); err != nil {
		// Notifications never fail the workflow that produced them.
		d.logger.Error("notifying %s: %v", n.UserID, err)
	}
}
