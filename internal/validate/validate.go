// Package validate checks comments and delegations before they are
// persisted. All failures wrap mauflow.ErrInvalidInput and multiple
// violations are reported together via errors.Join.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mauflow/mauflow/pkg/mauflow"
)

// Comment validates a comment before creation.
func Comment(c *mauflow.Comment) error {
	var errs []error

	if c.TaskID == uuid.Nil {
		errs = append(errs, fmt.Errorf("task is required: %w", mauflow.ErrInvalidInput))
	}
	if c.AuthorID == "" {
		errs = append(errs, fmt.Errorf("author is required: %w", mauflow.ErrInvalidInput))
	}

	body := strings.TrimSpace(c.Body)
	if body == "" {
		errs = append(errs, fmt.Errorf("comment body cannot be empty: %w", mauflow.ErrInvalidInput))
	}
	if len(c.Body) > mauflow.MaxCommentLength {
		errs = append(errs, fmt.Errorf("comment body exceeds %d characters: %w",
			mauflow.MaxCommentLength, mauflow.ErrInvalidInput))
	}

	return errors.Join(errs...)
}

// Delegation validates a delegation before creation.
func Delegation(d *mauflow.Delegation) error {
	var errs []error

	if d.TaskID == uuid.Nil {
		errs = append(errs, fmt.Errorf("task is required: %w", mauflow.ErrInvalidInput))
	}
	if d.FromUserID == "" {
		errs = append(errs, fmt.Errorf("delegating user is required: %w", mauflow.ErrInvalidInput))
	}
	if d.ToUserID == "" {
		errs = append(errs, fmt.Errorf("recipient is required: %w", mauflow.ErrInvalidInput))
	}
	if d.FromUserID != "" && d.FromUserID == d.ToUserID {
		errs = append(errs, fmt.Errorf("cannot delegate a task to yourself: %w", mauflow.ErrInvalidInput))
	}
	if len(d.Note) > mauflow.MaxDelegationNoteLength {
		errs = append(errs, fmt.Errorf("note exceeds %d characters: %w",
			mauflow.MaxDelegationNoteLength, mauflow.ErrInvalidInput))
	}

	return errors.Join(errs...)
}

// Task validates a task before creation.
func Task(t *mauflow.Task) error {
	var errs []error

	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, fmt.Errorf("title is required: %w", mauflow.ErrInvalidInput))
	}
	if t.CreatedBy == "" {
		errs = append(errs, fmt.Errorf("creator is required: %w", mauflow.ErrInvalidInput))
	}
	if t.Status != "" && !t.Status.IsValid() {
		errs = append(errs, fmt.Errorf("unknown status %q: %w", t.Status, mauflow.ErrInvalidInput))
	}
	if t.Priority != "" && !t.Priority.IsValid() {
		errs = append(errs, fmt.Errorf("unknown priority %q: %w", t.Priority, mauflow.ErrInvalidInput))
	}

	return errors.Join(errs...)
}
