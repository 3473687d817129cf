package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"saas-trend-digest/metrics"
)

// DefaultSubjectPrefix is prepended to the date in every digest subject.
const DefaultSubjectPrefix = "SaaS Trend Summary"

// Message is one delivery to one recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message over one channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type channel struct {
	name       string
	sender     Sender
	recipients []string
}

// Notifier fans a digest out to every recipient of every configured channel.
type Notifier struct {
	channels      []channel
	subjectPrefix string
	now           func() time.Time
	metrics       *metrics.Metrics
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithChannel registers a delivery channel and its recipients.
func WithChannel(name string, sender Sender, recipients []string) Option {
	return func(n *Notifier) {
		n.channels = append(n.channels, channel{name: name, sender: sender, recipients: recipients})
	}
}

// WithSubjectPrefix overrides DefaultSubjectPrefix.
func WithSubjectPrefix(prefix string) Option {
	return func(n *Notifier) {
		if prefix != "" {
			n.subjectPrefix = prefix
		}
	}
}

// WithClock sets the time source used to date the subject.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		n.now = now
	}
}

// WithMetrics records one delivery counter per recipient attempt.
func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Notifier) {
		n.metrics = m
	}
}

// New creates a Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		subjectPrefix: DefaultSubjectPrefix,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Subject returns the digest subject for the given day.
func Subject(prefix string, t time.Time) string {
	return fmt.Sprintf("%s - %s", prefix, t.Format(time.DateOnly))
}

// Notify sends digest to every recipient. Each recipient is attempted even
// when an earlier one fails; the failures are joined into the result.
func (n *Notifier) Notify(ctx context.Context, digest string) error {
	if len(n.channels) == 0 {
		return errors.New("no delivery channels configured")
	}

	subject := Subject(n.subjectPrefix, n.now())

	var errs []error
	for _, ch := range n.channels {
		for _, to := range ch.recipients {
			err := ch.sender.Send(ctx, Message{To: to, Subject: subject, Body: digest})
			if err != nil {
				slog.Warn("delivery failed", "channel", ch.name, "recipient", to, "error", err)
				n.metrics.IncDelivery(ch.name, metrics.ResultFailure)
				errs = append(errs, fmt.Errorf("%s to %s: %w", ch.name, to, err))
				continue
			}
			slog.Info("digest delivered", "channel", ch.name, "recipient", to)
			n.metrics.IncDelivery(ch.name, metrics.ResultSuccess)
		}
	}

	return errors.Join(errs...)
}
