// Package notify publishes build lifecycle events.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "sitegen.build.completed"

// BuildCompleted is published after every build, successful or not.
type BuildCompleted struct {
	BuildID     string    `json:"build_id"`
	Outcome     string    `json:"outcome"`
	Trigger     string    `json:"trigger,omitempty"`
	Revision    string    `json:"revision,omitempty"`
	Posts       int       `json:"posts"`
	Pages       int       `json:"pages"`
	TotalPages  int       `json:"total_pages"`
	BrokenLinks int       `json:"broken_links"`
	DurationMS  int64     `json:"duration_ms"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher delivers build events.
type Publisher interface {
	PublishBuild(ctx context.Context, ev BuildCompleted) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishBuild(context.Context, BuildCompleted) error { return nil }
func (NoopPublisher) Close() error                                     { return nil }

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes events as JSON on a NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
	logger  *slog.Logger
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url,
		nats.Name("sitegen"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNetwork, "failed to connect to NATS").
			Warning().
			WithContext("url", url).
			Build()
	}
	logger.Info("NATS publisher connected", slog.String("url", url), slog.String("subject", subjectOrDefault(subject)))
	return newNATSPublisher(nc, subject, logger), nil
}

func newNATSPublisher(c conn, subject string, logger *slog.Logger) *NATSPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{conn: c, subject: subjectOrDefault(subject), logger: logger}
}

func subjectOrDefault(s string) string {
	if s == "" {
		return DefaultSubject
	}
	return s
}

// PublishBuild publishes ev and waits for the server to acknowledge the flush.
func (p *NATSPublisher) PublishBuild(ctx context.Context, ev BuildCompleted) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal build event").Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "failed to publish build event").
			Warning().
			WithContext("subject", p.subject).
			Build()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "failed to flush build event").
			Warning().
			WithContext("subject", p.subject).
			Build()
	}
	p.logger.Debug("Published build event", slog.String("subject", p.subject), slog.String("build_id", ev.BuildID))
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
