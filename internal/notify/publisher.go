// Package notify publishes relocation and cleanup events to NATS so other
// tooling (CI dashboards, cache janitors) can react to output directories
// moving or disappearing.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
	"git.home.luguber.info/inful/buildreloc/internal/eventstore"
	"git.home.luguber.info/inful/buildreloc/internal/logfields"
)

// Publisher sends events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, e eventstore.Event) error
	Close() error
}

// NopPublisher drops events; used when notifications are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, eventstore.Event) error { return nil }
func (NopPublisher) Close() error                                    { return nil }

// NATSPublisher publishes events as JSON on <subject>.<event type>.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url, subject string, timeout time.Duration) (*NATSPublisher, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	conn, err := nats.Connect(url,
		nats.Name("buildreloc"),
		nats.Timeout(timeout),
	)
	if err != nil {
		return nil, relerrors.WrapRetryable(err, relerrors.CategoryNetwork, relerrors.SeverityWarning, "failed to connect to NATS").
			WithContext("url", url)
	}

	slog.Info("NATS publisher connected", slog.String("url", url), slog.String("subject", subject))
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish sends e and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, e eventstore.Event) error {
	subject := Subject(p.subject, e.Type)
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return relerrors.PublishError(subject, err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return relerrors.PublishError(subject, err)
	}

	slog.Debug("Published event",
		logfields.EventType(string(e.Type)),
		logfields.Project(e.Project),
		slog.String("subject", subject))
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// Subject returns the subject an event type is published on.
func Subject(base string, t eventstore.EventType) string {
	return base + "." + string(t)
}
