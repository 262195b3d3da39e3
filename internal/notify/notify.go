// Package notify announces rebuilt files to preview subscribers.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/docsetbuild/internal/config"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/logfields"
	"git.home.luguber.info/inful/docsetbuild/internal/retry"
)

// EventPreviewUpdated is the event type published after a file rebuild.
const EventPreviewUpdated = "preview.updated"

// Event describes one completed file rebuild.
type Event struct {
	Type        string    `json:"type"`
	Docset      string    `json:"docset"`
	File        string    `json:"file"`
	BuildID     string    `json:"build_id"`
	State       string    `json:"state"`
	Errors      int       `json:"errors"`
	Warnings    int       `json:"warnings"`
	Generation  uint64    `json:"generation"`
	Timestamp   time.Time `json:"timestamp"`
	Artifact    string    `json:"artifact,omitempty"`
	ContentType string    `json:"content_type"`
}

// Notifier publishes rebuild events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
	Close() error
}

// Noop discards events.
type Noop struct{}

func (Noop) Notify(context.Context, Event) error { return nil }
func (Noop) Close() error                        { return nil }

type publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// NATSNotifier publishes events on a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	pub     publisher
	subject string
	logger  *slog.Logger
}

// dialer opens a NATS connection; replaced in tests.
type dialer func(url string, opts ...nats.Option) (*nats.Conn, error)

// New returns a NATS notifier when cfg names a server, otherwise Noop.
// Connecting is retried with the configured backoff.
func New(cfg config.NotifyConfig) (Notifier, error) {
	if cfg.NATSURL == "" {
		return Noop{}, nil
	}
	policy := retry.NewPolicy(retry.Mode(cfg.RetryBackoff), cfg.RetryInitial, cfg.RetryMax, cfg.ConnectRetries)
	conn, err := connect(context.Background(), nats.Connect, policy, cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	slog.Info("NATS notifier initialized", "url", cfg.NATSURL, "subject", cfg.Subject)
	return &NATSNotifier{conn: conn, pub: conn, subject: cfg.Subject, logger: slog.Default()}, nil
}

func connect(ctx context.Context, dial dialer, policy retry.Policy, url string) (*nats.Conn, error) {
	var conn *nats.Conn
	attempts, err := policy.Do(ctx, func(attempt int) error {
		c, err := dial(url,
			nats.Name("docset"),
			nats.Timeout(5*time.Second),
			nats.MaxReconnects(10),
		)
		if err != nil {
			slog.Debug("NATS connect failed", "url", url, "attempt", attempt, logfields.Error(err))
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNotify, "failed to connect to NATS").
			WithContext("url", url).WithContext("attempts", attempts).Build()
	}
	return conn, nil
}

// Notify publishes ev and waits for the server to acknowledge the flush.
func (n *NATSNotifier) Notify(ctx context.Context, ev Event) error {
	if ev.Type == "" {
		ev.Type = EventPreviewUpdated
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "failed to marshal event").Build()
	}
	if err := n.pub.Publish(n.subject, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "failed to publish event").
			WithContext("subject", n.subject).Build()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
	}
	if err := n.pub.FlushWithContext(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "failed to flush event").Build()
	}
	n.logger.Debug("Published rebuild event", logfields.File(ev.File), logfields.BuildID(ev.BuildID))
	return nil
}

// Close drains and closes the connection.
func (n *NATSNotifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}
