package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mauflow/mauflow/internal/mention"
	"github.com/mauflow/mauflow/internal/tui"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment on tasks, with @mentions",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <task-id> <body>",
	Short: "Add a comment to a task",
	Long: `Add a comment to a task. @username mentions in the body notify the
mentioned users; the task creator is notified of the comment.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		body := strings.Join(args[1:], " ")

		comment, err := a.Commenter.Add(ctx, taskID, a.User, body)
		if err != nil {
			return err
		}

		if len(comment.Mentions) > 0 {
			fmt.Printf("Comment added, mentioning %s\n", strings.Join(comment.Mentions, ", "))
		} else {
			fmt.Println("Comment added")
		}
		return nil
	}),
}

var commentListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List a task's comments, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}

		comments, err := a.Commenter.List(ctx, taskID)
		if err != nil {
			return err
		}
		if len(comments) == 0 {
			fmt.Println("No comments.")
			return nil
		}

		interactive := tui.IsInteractive()
		for _, c := range comments {
			body := c.Body
			if interactive {
				body = mention.Highlight(body, func(m string) string {
					return tui.MentionStyle.Render(m)
				})
			}
			header := fmt.Sprintf("%s at %s:", c.AuthorID, c.CreatedAt.Local().Format("2006-01-02 15:04"))
			if interactive {
				header = tui.MutedStyle.Render(header)
			}
			fmt.Printf("%s\n  %s\n", header, body)
		}
		return nil
	}),
}

func init() {
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentListCmd)
	rootCmd.AddCommand(commentCmd)
}
