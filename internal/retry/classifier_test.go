package retry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsTransientPostgresError_PgCodes(t *testing.T) {
	tests := []struct {
		code      string
		transient bool
	}{
		{"08000", true},  // connection_exception
		{"08006", true},  // connection_failure
		{"40001", true},  // serialization_failure
		{"40P01", true},  // deadlock_detected
		{"53300", true},  // too_many_connections
		{"55P03", true},  // lock_not_available
		{"57P03", true},  // cannot_connect_now
		{"42601", false}, // syntax_error
		{"23505", false}, // unique_violation
		{"42P01", false}, // undefined_table
	}

	for _, tt := range tests {
		err := &pgconn.PgError{Code: tt.code, Message: "test"}
		if got := IsTransientPostgresError(err); got != tt.transient {
			t.Errorf("code %s: expected transient=%v, got %v", tt.code, tt.transient, got)
		}
	}
}

func TestIsTransientPostgresError_WrappedPgError(t *testing.T) {
	inner := &pgconn.PgError{Code: "08006", Message: "connection failure"}
	wrapped := fmt.Errorf("create task: %w", inner)

	if !IsTransientPostgresError(wrapped) {
		t.Error("Expected wrapped transient PgError to be recognized")
	}
}

func TestIsTransientPostgresError_MessagePatterns(t *testing.T) {
	tests := []struct {
		msg       string
		transient bool
	}{
		{"dial tcp: connection refused", true},
		{"read: connection reset by peer", true},
		{"i/o timeout", true},
		{"unexpected EOF", true},
		{"syntax error at or near SELECT", false},
		{"permission denied for table tasks", false},
	}

	for _, tt := range tests {
		if got := IsTransientPostgresError(errors.New(tt.msg)); got != tt.transient {
			t.Errorf("%q: expected transient=%v, got %v", tt.msg, tt.transient, got)
		}
	}
}

func TestIsTransientPostgresError_Nil(t *testing.T) {
	if IsTransientPostgresError(nil) {
		t.Error("Expected nil error to be non-transient")
	}
}
