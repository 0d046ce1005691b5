// Package db establishes PostgreSQL connection pools for the configured
// authentication method. Standard password auth, AWS RDS IAM, Google Cloud
// SQL IAM, and Azure Entra ID are supported.
package db

import (
	"fmt"
	"net/url"

	"github.com/mauflow/mauflow/pkg/mauflow"
)

// BuildConnectionString assembles a postgresql:// URL from the config.
// Credentials are URL-escaped, so passwords with special characters work.
func BuildConnectionString(config *mauflow.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   fmt.Sprintf("%s:%d", config.Host, config.Port),
		Path:   "/" + config.Database,
	}

	if config.Username != "" {
		if config.Password != "" {
			u.User = url.UserPassword(config.Username, config.Password)
		} else {
			u.User = url.User(config.Username)
		}
	}

	query := url.Values{}
	if config.SSLMode != "" {
		query.Set("sslmode", config.SSLMode)
	}
	query.Set("application_name", "mauflow")

	u.RawQuery = query.Encode()
	return u.String()
}
