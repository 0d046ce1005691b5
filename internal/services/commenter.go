package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mauflow/mauflow/internal/mention"
	"github.com/mauflow/mauflow/internal/retry"
	"github.com/mauflow/mauflow/internal/validate"
	"github.com/mauflow/mauflow/pkg/mauflow"
)

// Commenter posts comments on tasks, extracts @mentions, and fans out
// notifications to mentioned users and the task creator.
type Commenter struct {
	store    mauflow.Store
	notifier Notifier
	exec     *retry.Executor
	logger   mauflow.Logger

	now func() time.Time
}

// NewCommenter creates a Commenter. A nil executor gets a default one that
// retries transient database errors.
func NewCommenter(store mauflow.Store, notifier Notifier, exec *retry.Executor, logger mauflow.Logger) *Commenter {
	if exec == nil {
		exec = retry.NewExecutor(retry.WithRetryIf(retry.IsTransientPostgresError))
	}
	return &Commenter{
		store:    store,
		notifier: notifier,
		exec:     exec,
		logger:   logger,
		now:      time.Now,
	}
}

// Add posts a comment on a task. Mentioned users get mention notifications;
// the task creator gets a comment notification unless they wrote the comment
// or were already mentioned.
func (c *Commenter) Add(ctx context.Context, taskID uuid.UUID, authorID, body string) (*mauflow.Comment, error) {
	comment := &mauflow.Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Body:      strings.TrimSpace(body),
		CreatedAt: c.now().UTC(),
	}
	if err := validate.Comment(comment); err != nil {
		return nil, err
	}

	task, err := c.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	comment.Mentions = mention.Parse(comment.Body)

	err = c.exec.Execute(ctx, func(ctx context.Context) error {
		return c.store.CreateComment(ctx, comment)
	})
	if err != nil {
		return nil, fmt.Errorf("storing comment: %w", err)
	}
	c.logger.Verbose("comment %s added to task %q by %s (%d mentions)",
		comment.ID, task.Title, authorID, len(comment.Mentions))

	mentioned := make(map[string]bool, len(comment.Mentions))
	for _, username := range comment.Mentions {
		mentioned[strings.ToLower(username)] = true
		if username == authorID {
			continue
		}
		c.notify(ctx, &mauflow.Notification{
			UserID:  username,
			Kind:    mauflow.NotifyMention,
			TaskID:  taskID,
			ActorID: authorID,
			Message: fmt.Sprintf("%s mentioned you on %q", authorID, task.Title),
		})
	}

	if task.CreatedBy != authorID && !mentioned[strings.ToLower(task.CreatedBy)] {
		c.notify(ctx, &mauflow.Notification{
			UserID:  task.CreatedBy,
			Kind:    mauflow.NotifyComment,
			TaskID:  taskID,
			ActorID: authorID,
			Message: fmt.Sprintf("%s commented on %q", authorID, task.Title),
		})
	}
	return comment, nil
}

// List returns a task's comments oldest first.
func (c *Commenter) List(ctx context.Context, taskID uuid.UUID) ([]*mauflow.Comment, error) {
	if _, err := c.store.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return c.store.ListCommentsByTask(ctx, taskID)
}

func (c *Commenter) notify(ctx context.Context, n *mauflow.Notification) {
	if err := c.notifier.Notify(ctx, n); err != nil {
		c.logger.Error("notifying %s: %v", n.UserID, err)
	}
}
