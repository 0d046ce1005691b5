package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mauflow/mauflow/internal/config"
	"github.com/mauflow/mauflow/internal/db"
	"github.com/mauflow/mauflow/internal/logging"
	"github.com/mauflow/mauflow/internal/notify"
	"github.com/mauflow/mauflow/internal/services"
	"github.com/mauflow/mauflow/internal/store"
	"github.com/mauflow/mauflow/internal/tui"
	"github.com/mauflow/mauflow/pkg/mauflow"
)

// connectionFlags holds the connection-related flag values read off a command.
type connectionFlags struct {
	host           string
	port           int
	username       string
	database       string
	sslMode        string
	aws            bool
	awsRegion      string
	google         bool
	googleInstance string
	azure          bool
	azureTenantID  string
	azureClientID  string
}

func readConnectionFlags(cmd *cobra.Command) connectionFlags {
	flags := cmd.Flags()
	f := connectionFlags{}
	f.host, _ = flags.GetString("host")
	f.port, _ = flags.GetInt("port")
	f.username, _ = flags.GetString("username")
	f.database, _ = flags.GetString("database")
	f.sslMode, _ = flags.GetString("sslmode")
	f.aws, _ = flags.GetBool("aws")
	f.awsRegion, _ = flags.GetString("aws-region")
	f.googleInstance, _ = flags.GetString("google-instance")
	f.google = f.googleInstance != ""
	f.azure, _ = flags.GetBool("azure")
	f.azureTenantID, _ = flags.GetString("azure-tenant-id")
	f.azureClientID, _ = flags.GetString("azure-client-id")
	return f
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveConnectionConfig merges connection settings.
// Precedence: flags > environment variables > mauflow.yaml > defaults.
func resolveConnectionConfig(flags connectionFlags, cfg *config.ProjectConfig, getenv func(string) string) (*mauflow.ConnectionConfig, error) {
	var yamlConn config.ConnectionConfig
	if cfg != nil {
		yamlConn = cfg.Connection
	}

	conn := &mauflow.ConnectionConfig{
		Host:     firstNonEmpty(flags.host, getenv("PGHOST"), yamlConn.Host, "localhost"),
		Username: firstNonEmpty(flags.username, getenv("PGUSER"), yamlConn.Username),
		Database: firstNonEmpty(flags.database, getenv("PGDATABASE"), yamlConn.Database, "mauflow"),
		Password: getenv("PGPASSWORD"),
		SSLMode:  firstNonEmpty(flags.sslMode, getenv("PGSSLMODE"), yamlConn.SSLMode),
	}

	conn.Port = flags.port
	if conn.Port == 0 {
		if envPort := getenv("PGPORT"); envPort != "" {
			p, err := strconv.Atoi(envPort)
			if err != nil {
				return nil, fmt.Errorf("invalid $PGPORT %q: %w", envPort, mauflow.ErrInvalidInput)
			}
			conn.Port = p
		}
	}
	if conn.Port == 0 {
		conn.Port = yamlConn.Port
	}
	if conn.Port == 0 {
		conn.Port = 5432
	}

	conn.AWSRegion = firstNonEmpty(flags.awsRegion, getenv("AWS_REGION"), yamlConn.AWSRegion)
	conn.GoogleInstance = firstNonEmpty(flags.googleInstance, yamlConn.GoogleInstance)
	conn.AzureTenantID = firstNonEmpty(flags.azureTenantID, getenv("AZURE_TENANT_ID"), yamlConn.AzureTenantID)
	conn.AzureClientID = firstNonEmpty(flags.azureClientID, getenv("AZURE_CLIENT_ID"), yamlConn.AzureClientID)
	conn.AzureClientSecret = getenv("AZURE_CLIENT_SECRET")

	method, err := resolveAuthMethod(flags, yamlConn.AuthMethod)
	if err != nil {
		return nil, err
	}
	conn.AuthMethod = method

	return conn, nil
}

// resolveAuthMethod picks the auth method from flags, falling back to the
// auth_method string in mauflow.yaml. Flags conflict if more than one cloud
// is selected.
func resolveAuthMethod(flags connectionFlags, yamlMethod string) (mauflow.AuthMethod, error) {
	selected := 0
	for _, on := range []bool{flags.aws, flags.google, flags.azure} {
		if on {
			selected++
		}
	}
	if selected > 1 {
		return 0, fmt.Errorf("at most one of --aws, --google-instance, --azure may be used: %w", mauflow.ErrInvalidInput)
	}

	switch {
	case flags.aws:
		return mauflow.AuthMethodAWSIAM, nil
	case flags.google:
		return mauflow.AuthMethodGoogleIAM, nil
	case flags.azure:
		return mauflow.AuthMethodAzureEntraID, nil
	}

	switch yamlMethod {
	case "", "standard":
		return mauflow.AuthMethodStandard, nil
	case "aws-iam":
		return mauflow.AuthMethodAWSIAM, nil
	case "google-iam":
		return mauflow.AuthMethodGoogleIAM, nil
	case "azure":
		return mauflow.AuthMethodAzureEntraID, nil
	default:
		return 0, fmt.Errorf("unknown auth_method %q in mauflow.yaml: %w", yamlMethod, mauflow.ErrUnsupportedAuthMethod)
	}
}

// resolveActingUser determines who is running the command.
// Precedence: --as flag > $MAUFLOW_USER > mauflow.yaml user.
func resolveActingUser(asFlag string, cfg *config.ProjectConfig, getenv func(string) string) (string, error) {
	var yamlUser string
	if cfg != nil {
		yamlUser = cfg.User
	}
	user := firstNonEmpty(asFlag, getenv("MAUFLOW_USER"), yamlUser)
	if user == "" {
		return "", fmt.Errorf("acting user is required (use --as, $MAUFLOW_USER, or 'user:' in mauflow.yaml): %w",
			mauflow.ErrInvalidInput)
	}
	return user, nil
}

// loadProjectConfig loads godotenv and the project configuration.
// A missing mauflow.yaml is not an error.
func loadProjectConfig() (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load mauflow.yaml: %w", err)
	}
	return cfg, nil
}

// app bundles everything a command needs once the database is up.
type app struct {
	User      string
	Logger    mauflow.Logger
	Store     *store.Postgres
	Tasks     *services.Tasks
	Delegator *services.Delegator
	Commenter *services.Commenter
	Notify    *notify.Service

	pool      *pgxpool.Pool
	publisher notify.Publisher
	connector mauflow.Connector
}

// newApp resolves configuration, connects to the database with retry
// feedback, and wires the services. Callers must Close the returned app.
func newApp(cmd *cobra.Command) (*app, error) {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	cfg, err := loadProjectConfig()
	if err != nil {
		return nil, err
	}

	asFlag, _ := cmd.Flags().GetString("as")
	user, err := resolveActingUser(asFlag, cfg, os.Getenv)
	if err != nil {
		return nil, err
	}

	connCfg, err := resolveConnectionConfig(readConnectionFlags(cmd), cfg, os.Getenv)
	if err != nil {
		return nil, err
	}
	logger.Verbose("connecting to %s:%d/%s as %s (%s auth)",
		connCfg.Host, connCfg.Port, connCfg.Database, connCfg.Username, connCfg.AuthMethod)

	connector, err := db.NewConnector(connCfg)
	if err != nil {
		return nil, err
	}

	reader, _ := connector.(mauflow.RetryStateReader)
	var pool *pgxpool.Pool
	err = tui.RunWithSpinner(
		fmt.Sprintf("Connecting to %s:%d/%s", connCfg.Host, connCfg.Port, connCfg.Database),
		"Connected",
		reader,
		func() error {
			var connErr error
			pool, connErr = connector.Connect(cmd.Context())
			return connErr
		},
	)
	if err != nil {
		return nil, err
	}

	pg := store.NewPostgres(pool)
	if err := pg.EnsureSchema(cmd.Context()); err != nil {
		pool.Close()
		return nil, err
	}

	publisher := newPublisher(cfg, logger)
	notifySvc := notify.NewService(pg, pg, publisher, logger)

	return &app{
		User:      user,
		Logger:    logger,
		Store:     pg,
		Tasks:     services.NewTasks(pg, nil, logger),
		Delegator: services.NewDelegator(pg, notifySvc, nil, logger),
		Commenter: services.NewCommenter(pg, notifySvc, nil, logger),
		Notify:    notifySvc,
		pool:      pool,
		publisher: publisher,
		connector: connector,
	}, nil
}

// newPublisher connects to NATS when a URL is configured, otherwise live
// delivery is disabled.
func newPublisher(cfg *config.ProjectConfig, logger mauflow.Logger) notify.Publisher {
	url := os.Getenv("MAUFLOW_NATS_URL")
	prefix := ""
	if cfg != nil {
		url = firstNonEmpty(url, cfg.NATS.URL)
		prefix = cfg.NATS.SubjectPrefix
	}
	if url == "" {
		return notify.NullPublisher{}
	}

	publisher, err := notify.NewNATSPublisher(url, prefix)
	if err != nil {
		logger.Error("live notifications unavailable: %v", err)
		return notify.NullPublisher{}
	}
	logger.Verbose("publishing live notifications to %s", url)
	return publisher
}

// Close releases the pool, the publisher, and any cloud dialer held by the
// connector.
func (a *app) Close() {
	a.pool.Close()
	if err := a.publisher.Close(); err != nil {
		a.Logger.Verbose("closing publisher: %v", err)
	}
	if closer, ok := a.connector.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.Logger.Verbose("closing connector: %v", err)
		}
	}
}

// runWithApp wraps a command handler with app setup and teardown.
func runWithApp(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), a, cmd, args)
	}
}
