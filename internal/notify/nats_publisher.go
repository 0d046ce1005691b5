package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mauflow/mauflow/pkg/mauflow"
)

// DefaultSubjectPrefix is used when the config does not set one.
const DefaultSubjectPrefix = "mauflow"

// NATSPublisher publishes notifications as JSON messages on
// <prefix>.notifications.<userID>, so clients subscribe to their own subject.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSPublisher connects to the given NATS URL. An empty prefix falls back
// to DefaultSubjectPrefix.
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	conn, err := nats.Connect(url,
		nats.Name("mauflow"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

// Publish sends the notification to the recipient's subject.
func (p *NATSPublisher) Publish(_ context.Context, n *mauflow.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}
	subject := fmt.Sprintf("%s.notifications.%s", p.prefix, n.UserID)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}

// Close drains the connection, flushing buffered messages before closing.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
