// Package cli wires the mauflow commands: tasks, delegations, comments,
// notifications, and preferences.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `                        __ _
  _ __ ___   __ _ _   _ / _| | _____      __
 | '_ ' _ \ / _' | | | | |_| |/ _ \ \ /\ / /
 | | | | | | (_| | |_| |  _| | (_) \ V  V /
 |_| |_| |_|\__,_|\__,_|_| |_|\___/ \_/\_/`

var rootCmd = &cobra.Command{
	Use:   "mauflow",
	Short: "Task management with delegation, mentions, and notifications",
	Long: asciiLogo + `

mauflow tracks tasks, hands them between users with an accept/decline
handshake, threads comments with @mentions, and delivers notifications
that respect each user's preferences and quiet hours.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - Invalid input (validation failed)
  13 - Invalid state transition
  14 - Task, delegation, or notification not found`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for mauflow")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("as", "", "Acting username (default: $MAUFLOW_USER or mauflow.yaml)")

	rootCmd.PersistentFlags().String("host", "", "Database host (default: $PGHOST, mauflow.yaml, or localhost)")
	rootCmd.PersistentFlags().Int("port", 0, "Database port (default: $PGPORT, mauflow.yaml, or 5432)")
	rootCmd.PersistentFlags().StringP("username", "U", "", "Database user (default: $PGUSER or mauflow.yaml)")
	rootCmd.PersistentFlags().StringP("database", "d", "", "Database name (default: $PGDATABASE, mauflow.yaml, or mauflow)")
	rootCmd.PersistentFlags().String("sslmode", "", "SSL mode (disable, require, verify-ca, verify-full)")

	rootCmd.PersistentFlags().Bool("aws", false, "Use AWS RDS IAM authentication")
	rootCmd.PersistentFlags().String("aws-region", "", "AWS region for RDS IAM auth (default: $AWS_REGION)")
	rootCmd.PersistentFlags().String("google-instance", "", "Google Cloud SQL instance (project:region:instance), enables IAM auth")
	rootCmd.PersistentFlags().Bool("azure", false, "Use Azure Entra ID authentication")
	rootCmd.PersistentFlags().String("azure-tenant-id", "", "Azure tenant ID for Service Principal auth")
	rootCmd.PersistentFlags().String("azure-client-id", "", "Azure client ID for Service Principal auth")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
