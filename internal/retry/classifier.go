package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsTransientPostgresError reports whether a database error is worth
// retrying. Intended for use with WithRetryIf on executors that guard
// Postgres operations.
//
// Transient conditions: connection exceptions (class 08), serialization
// failures and deadlocks (class 40), insufficient resources (class 53),
// operator intervention (class 57), lock contention (55P03), and the usual
// network-level failures underneath them.
func IsTransientPostgresError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientPgCode(pgErr.Code)
	}

	if isTransientNetError(err) {
		return true
	}

	return matchesTransientMessage(err.Error())
}

// isTransientPgCode checks PostgreSQL error codes for transient conditions.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
func isTransientPgCode(code string) bool {
	switch {
	case strings.HasPrefix(code, "08"): // Connection Exception
		return true
	case strings.HasPrefix(code, "53"): // Insufficient Resources
		return true
	case strings.HasPrefix(code, "57"): // Operator Intervention
		return true
	}

	switch code {
	case "40001", // serialization_failure
		"40P01", // deadlock_detected
		"55P03": // lock_not_available
		return true
	}
	return false
}

func isTransientNetError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}
		return errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
			errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.ENETUNREACH) ||
			errors.Is(opErr.Err, syscall.EHOSTUNREACH)
	}

	return false
}

// matchesTransientMessage is the fallback for errors that arrive as flat
// strings (wrapped driver errors, pooled connection failures).
func matchesTransientMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"connection failure",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"broken pipe",
		"too many connections",
		"server closed the connection",
		"unexpected eof",
		"connection pool exhausted",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
