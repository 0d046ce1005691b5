package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mauflow/mauflow/internal/tui"
	"github.com/mauflow/mauflow/pkg/mauflow"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create, list, and complete tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		priorityFlag, _ := cmd.Flags().GetString("priority")
		dueFlag, _ := cmd.Flags().GetString("due")

		var dueDate *time.Time
		if dueFlag != "" {
			parsed, err := time.Parse("2006-01-02", dueFlag)
			if err != nil {
				return fmt.Errorf("invalid --due %q, expected YYYY-MM-DD: %w", dueFlag, mauflow.ErrInvalidInput)
			}
			dueDate = &parsed
		}

		task, err := a.Tasks.Create(ctx, args[0], description, a.User, mauflow.TaskPriority(priorityFlag), dueDate)
		if err != nil {
			return err
		}

		fmt.Printf("Created task %s: %s\n", task.ID, task.Title)
		return nil
	}),
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tasks",
	Args:  cobra.NoArgs,
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		tasks, err := a.Tasks.List(ctx)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		for _, task := range tasks {
			line := fmt.Sprintf("%s  [%s/%s] %s (by %s",
				task.ID, task.Status, task.Priority, task.Title, task.CreatedBy)
			if task.AssigneeID != "" {
				line += ", assigned to " + task.AssigneeID
			}
			line += ")"
			if task.DueDate != nil {
				line += " due " + task.DueDate.Format("2006-01-02")
			}
			fmt.Println(styleTaskLine(task, line))
		}
		return nil
	}),
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}

		task, err := a.Tasks.Complete(ctx, taskID)
		if err != nil {
			return err
		}

		fmt.Printf("Done: %s\n", task.Title)
		return nil
	}),
}

func styleTaskLine(task *mauflow.Task, line string) string {
	if !tui.IsInteractive() {
		return line
	}
	switch task.Status {
	case mauflow.TaskStatusDone:
		return tui.MutedStyle.Render(line)
	case mauflow.TaskStatusDoing:
		return tui.TitleStyle.Render(line)
	default:
		return line
	}
}

// parseID parses a UUID argument, naming the entity in the error.
func parseID(arg, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID %q: %w", entity, arg, mauflow.ErrInvalidInput)
	}
	return id, nil
}

func init() {
	taskAddCmd.Flags().String("description", "", "Task description")
	taskAddCmd.Flags().String("priority", "", "Priority: low, medium, or high (default medium)")
	taskAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	rootCmd.AddCommand(taskCmd)
}
