package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mauflow/mauflow/internal/notify"
	"github.com/mauflow/mauflow/internal/tui"
	"github.com/mauflow/mauflow/pkg/mauflow"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List your notifications, newest first",
	Args:  cobra.NoArgs,
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		var notifications []*mauflow.Notification
		var err error
		if all {
			notifications, err = a.Store.ListNotifications(ctx, a.User, false)
		} else {
			notifications, err = a.Notify.Unread(ctx, a.User)
		}
		if err != nil {
			return err
		}
		if len(notifications) == 0 {
			if all {
				fmt.Println("No notifications.")
			} else {
				fmt.Println("No unread notifications.")
			}
			return nil
		}

		interactive := tui.IsInteractive()
		for _, n := range notifications {
			marker := tui.SymbolUnread
			if n.Read {
				marker = tui.SymbolRead
			}
			line := fmt.Sprintf("%s %s  [%s] %s (%s)",
				marker, n.ID, n.Kind, n.Message, n.CreatedAt.Local().Format("2006-01-02 15:04"))
			if interactive && n.Read {
				line = tui.MutedStyle.Render(line)
			}
			fmt.Println(line)
		}
		return nil
	}),
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read [notification-id]",
	Short: "Mark a notification (or all with --all) as read",
	Args:  cobra.MaximumNArgs(1),
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		if all {
			if err := a.Notify.MarkAllRead(ctx, a.User); err != nil {
				return err
			}
			fmt.Println("All notifications marked read.")
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("a notification ID or --all is required: %w", mauflow.ErrInvalidInput)
		}
		id, err := parseID(args[0], "notification")
		if err != nil {
			return err
		}
		if err := a.Notify.MarkRead(ctx, id); err != nil {
			return err
		}
		fmt.Println("Marked read.")
		return nil
	}),
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show your notification preferences",
	Args:  cobra.NoArgs,
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		prefs, err := a.Store.GetPreferences(ctx, a.User)
		if errors.Is(err, mauflow.ErrNotFound) {
			fmt.Println("No preferences saved: all notification kinds enabled, no quiet hours.")
			return nil
		}
		if err != nil {
			return err
		}

		onOff := func(enabled bool) string {
			if enabled {
				return "on"
			}
			return "off"
		}
		fmt.Printf("delegation: %s\n", onOff(prefs.DelegationEnabled))
		fmt.Printf("mention:    %s\n", onOff(prefs.MentionEnabled))
		fmt.Printf("comment:    %s\n", onOff(prefs.CommentEnabled))
		fmt.Printf("status:     %s\n", onOff(prefs.StatusEnabled))
		if prefs.QuietHoursStart != "" && prefs.QuietHoursEnd != "" {
			fmt.Printf("quiet hours: %s-%s\n", prefs.QuietHoursStart, prefs.QuietHoursEnd)
		} else {
			fmt.Println("quiet hours: none")
		}
		return nil
	}),
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update your notification preferences",
	Args:  cobra.NoArgs,
	RunE: runWithApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		prefs, err := a.Store.GetPreferences(ctx, a.User)
		if errors.Is(err, mauflow.ErrNotFound) {
			prefs = notify.DefaultPreferences(a.User)
		} else if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("delegation") {
			prefs.DelegationEnabled, _ = flags.GetBool("delegation")
		}
		if flags.Changed("mention") {
			prefs.MentionEnabled, _ = flags.GetBool("mention")
		}
		if flags.Changed("comment") {
			prefs.CommentEnabled, _ = flags.GetBool("comment")
		}
		if flags.Changed("status") {
			prefs.StatusEnabled, _ = flags.GetBool("status")
		}
		if flags.Changed("quiet-start") {
			prefs.QuietHoursStart, _ = flags.GetString("quiet-start")
		}
		if flags.Changed("quiet-end") {
			prefs.QuietHoursEnd, _ = flags.GetString("quiet-end")
		}

		if err := a.Store.SavePreferences(ctx, prefs); err != nil {
			return err
		}
		fmt.Println("Preferences saved.")
		return nil
	}),
}

func init() {
	notificationsCmd.Flags().Bool("all", false, "Include notifications already read")
	notificationsReadCmd.Flags().Bool("all", false, "Mark every notification read")
	notificationsCmd.AddCommand(notificationsReadCmd)
	rootCmd.AddCommand(notificationsCmd)

	prefsSetCmd.Flags().Bool("delegation", true, "Receive delegation notifications")
	prefsSetCmd.Flags().Bool("mention", true, "Receive mention notifications")
	prefsSetCmd.Flags().Bool("comment", true, "Receive comment notifications")
	prefsSetCmd.Flags().Bool("status", true, "Receive status notifications")
	prefsSetCmd.Flags().String("quiet-start", "", "Quiet hours start (HH:MM, 24-hour)")
	prefsSetCmd.Flags().String("quiet-end", "", "Quiet hours end (HH:MM, 24-hour)")
	prefsCmd.AddCommand(prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}
