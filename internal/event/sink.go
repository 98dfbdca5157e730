package event

import (
	"context"
	"log/slog"
)

// LogSink writes one activity line per event until ctx is cancelled.
func LogSink(ctx context.Context, bus Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			slog.Info("activity", "event_id", e.ID, "event_type", e.Type, "subject", e.Subject, "actor_id", e.ActorID)
		}
	}
}
