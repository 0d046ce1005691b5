// Package notify creates, filters, and delivers notifications. Persistence
// goes through the notification store; real-time delivery goes through a
// Publisher (NATS in production).
package notify

import (
	"context"

	"github.com/mauflow/mauflow/pkg/mauflow"
)

// Publisher delivers a notification to a live channel. Implementations must
// be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, n *mauflow.Notification) error
	Close() error
}

// NullPublisher discards all notifications. Used when no live transport is
// configured.
type NullPublisher struct{}

func (NullPublisher) Publish(_ context.Context, _ *mauflow.Notification) error { return nil }

func (NullPublisher) Close() error { return nil }
