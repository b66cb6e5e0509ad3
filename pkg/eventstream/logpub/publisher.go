// Package logpub publishes engine events to the structured log.
package logpub

import (
	"context"

	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/eventstream"
)

// Publisher writes events to a zap logger. It is the publisher wired by
// the serve command, where the log stream doubles as the event stream.
type Publisher struct {
	logger *zap.Logger
}

// NewPublisher creates a log-backed eventstream publisher.
func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

// Publish logs the event with its payload fields.
func (p *Publisher) Publish(_ context.Context, event *eventstream.Event) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	fields := []zap.Field{
		zap.String("event_id", event.EventID),
		zap.Time("emitted_at", event.EmittedAt),
		zap.Int("corpus_size", event.Engine.CorpusSize),
	}
	if event.Engine.Dimensions > 0 {
		fields = append(fields, zap.Int("dimensions", event.Engine.Dimensions))
	}
	if event.Query != nil {
		fields = append(fields,
			zap.String("intent", event.Query.Intent),
			zap.Int("matches", event.Query.Matches),
			zap.Int64("duration_ms", event.Query.DurationMs),
		)
	}

	p.logger.Info(event.EventType, fields...)
	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
