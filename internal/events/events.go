// Package events publishes domain events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"
)

// Subjects published by the API.
const (
	SubjectUserRegistered = "bloglist.users.registered"
	SubjectBlogCreated    = "bloglist.blogs.created"
	SubjectBlogUpdated    = "bloglist.blogs.updated"
	SubjectBlogDeleted    = "bloglist.blogs.deleted"
)

// Publisher sends a payload on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// NATSPublisher publishes JSON payloads on a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

// Connect dials url with reconnect handling.
func Connect(url string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("bloglist-api"),
		nats.Timeout(5 * time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// Notifier publishes best-effort: failures are logged, at most once per
// interval, and never returned to the caller.
type Notifier struct {
	pub      Publisher
	logger   *slog.Logger
	warnings rate.Sometimes
}

// NewNotifier wraps pub. A nil pub makes Notify a no-op.
func NewNotifier(pub Publisher, logger *slog.Logger) *Notifier {
	return &Notifier{
		pub:      pub,
		logger:   logger,
		warnings: rate.Sometimes{First: 1, Interval: 30 * time.Second},
	}
}

func (n *Notifier) Notify(ctx context.Context, subject string, payload any) {
	if n == nil || n.pub == nil {
		return
	}
	if err := n.pub.Publish(ctx, subject, payload); err != nil {
		n.warnings.Do(func() {
			n.logger.Warn("event publish failed", "subject", subject, "error", err)
		})
	}
}
