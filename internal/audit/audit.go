// Package audit writes one structured activity line per domain event.
package audit

import (
	"context"
	"log/slog"
	"sort"

	"github.com/frahmantamala/contract-portal/internal/core/events"
)

// Subscriber is the bus side of the activity log.
type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With("component", "audit")}
}

// Register subscribes to every event type the services emit.
func (l *Logger) Register(bus Subscriber) {
	for _, eventType := range events.AllTypes {
		bus.Subscribe(eventType, l.Handle)
	}
}

func (l *Logger) Handle(ctx context.Context, event events.Event) error {
	attrs := []any{
		"event_id", event.EventID(),
		"event_type", event.EventType(),
		"occurred_at", event.OccurredAt(),
	}

	if data, ok := event.Payload().(map[string]interface{}); ok {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, k, data[k])
		}
	}

	l.logger.InfoContext(ctx, "activity", attrs...)
	return nil
}
