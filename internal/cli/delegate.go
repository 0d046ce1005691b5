package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mauflow/mauflow/pkg/mauflow"
)

var delegateCmd = &cobra.Command{
	Use:   "delegate <task-id> --to <user>",
	Short: "Hand a task to another user",
	Long: `Hand a task to another user. The recipient is notified and must accept
or decline before working on it. Accepting assigns the task; completing an
accepted delegation marks the task done.`,
	Args: cobra.ExactArgs(1),
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		to, _ := cmd.Flags().GetString("to")
		if to == "" {
			return fmt.Errorf("--to is required: %w", mauflow.ErrInvalidInput)
		}
		note, _ := cmd.Flags().GetString("note")

		delegation, err := a.Delegator.Create(ctx, taskID, a.User, to, note)
		if err != nil {
			return err
		}

		fmt.Printf("Delegation %s created: waiting for %s to accept\n", delegation.ID, to)
		return nil
	}),
}

var delegateAcceptCmd = &cobra.Command{
	Use:   "accept <delegation-id>",
	Short: "Accept a delegation addressed to you",
	Args:  cobra.ExactArgs(1),
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "delegation")
		if err != nil {
			return err
		}
		delegation, err := a.Delegator.Accept(ctx, id, a.User)
		if err != nil {
			return err
		}
		fmt.Printf("Accepted: task is now assigned to you (%s)\n", delegation.ToUserID)
		return nil
	}),
}

var delegateDeclineCmd = &cobra.Command{
	Use:   "decline <delegation-id>",
	Short: "Decline a delegation addressed to you",
	Args:  cobra.ExactArgs(1),
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "delegation")
		if err != nil {
			return err
		}
		delegation, err := a.Delegator.Decline(ctx, id, a.User)
		if err != nil {
			return err
		}
		fmt.Printf("Declined: %s has been notified\n", delegation.FromUserID)
		return nil
	}),
}

var delegateCompleteCmd = &cobra.Command{
	Use:   "complete <delegation-id>",
	Short: "Complete an accepted delegation and mark the task done",
	Args:  cobra.ExactArgs(1),
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "delegation")
		if err != nil {
			return err
		}
		delegation, err := a.Delegator.Complete(ctx, id, a.User)
		if err != nil {
			return err
		}
		fmt.Printf("Completed: %s has been notified\n", delegation.FromUserID)
		return nil
	}),
}

var delegateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List delegations addressed to you, newest first",
	Args:  cobra.NoArgs,
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		delegations, err := a.Delegator.ListForUser(ctx, a.User)
		if err != nil {
			return err
		}
		if len(delegations) == 0 {
			fmt.Println("No delegations.")
			return nil
		}

		for _, d := range delegations {
			line := fmt.Sprintf("%s  [%s] task %s from %s", d.ID, d.Status, d.TaskID, d.FromUserID)
			if d.Note != "" {
				line += fmt.Sprintf(" (%s)", d.Note)
			}
			fmt.Println(line)
		}
		return nil
	}),
}

func init() {
	delegateCmd.Flags().String("to", "", "Recipient username (required)")
	delegateCmd.Flags().String("note", "", "Optional note for the recipient")

	delegateCmd.AddCommand(delegateAcceptCmd)
	delegateCmd.AddCommand(delegateDeclineCmd)
	delegateCmd.AddCommand(delegateCompleteCmd)
	delegateCmd.AddCommand(delegateListCmd)
	rootCmd.AddCommand(delegateCmd)
}
