package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mauflow/mauflow/internal/config"
	"github.com/mauflow/mauflow/pkg/mauflow"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a mauflow.yaml in the current directory",
	Long: `Write a mauflow.yaml in the current directory, seeded from the
connection flags, $MAUFLOW_USER, and --nats-url. Flags passed to later
commands still override the file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(config.ConfigFileName); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigFileName)
			}
		}

		connCfg, err := resolveConnectionConfig(readConnectionFlags(cmd), nil, os.Getenv)
		if err != nil {
			return err
		}

		asFlag, _ := cmd.Flags().GetString("as")
		natsURL, _ := cmd.Flags().GetString("nats-url")

		cfg := &config.ProjectConfig{
			Connection: config.ConnectionConfig{
				Host:           connCfg.Host,
				Port:           connCfg.Port,
				Username:       connCfg.Username,
				Database:       connCfg.Database,
				SSLMode:        connCfg.SSLMode,
				AWSRegion:      connCfg.AWSRegion,
				GoogleInstance: connCfg.GoogleInstance,
				AzureTenantID:  connCfg.AzureTenantID,
				AzureClientID:  connCfg.AzureClientID,
			},
			NATS: config.NATSConfig{URL: natsURL},
			User: firstNonEmpty(asFlag, os.Getenv("MAUFLOW_USER")),
		}

		switch connCfg.AuthMethod {
		case mauflow.AuthMethodAWSIAM:
			cfg.Connection.AuthMethod = "aws-iam"
		case mauflow.AuthMethodGoogleIAM:
			cfg.Connection.AuthMethod = "google-iam"
		case mauflow.AuthMethodAzureEntraID:
			cfg.Connection.AuthMethod = "azure"
		}

		if err := config.Save(".", cfg); err != nil {
			return fmt.Errorf("writing %s: %w", config.ConfigFileName, err)
		}
		fmt.Printf("Wrote %s\n", config.ConfigFileName)
		return nil
	},
}

func init() {
	initCmd.Flags().String("nats-url", "", "NATS server URL for live notifications")
	initCmd.Flags().Bool("force", false, "Overwrite an existing mauflow.yaml")
	rootCmd.AddCommand(initCmd)
}
