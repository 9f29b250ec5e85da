package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes each change as a structured log line. It is the default
// feed when no broker is configured and the fallback while the broker is down.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, change Change) error {
	p.logger.InfoContext(ctx, "entity change",
		"action", change.Action,
		"entity_id", change.EntityID,
		"field", change.Field,
		"count", change.Count,
		"request_id", change.RequestID,
		"client_ip", change.ClientIP,
		"client", change.Client,
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
