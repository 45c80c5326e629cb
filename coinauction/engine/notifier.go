package engine

import (
	"context"
	"log/slog"

	"github.com/hypemarket/coinauction/coinauction/database/models"
)

// Notifier delivers a single event to an actor. Implementations are invoked
// by the outbox dispatcher strictly after the causing transaction committed;
// a slow or failing channel never stalls bidding.
type Notifier interface {
	Notify(ctx context.Context, actorID string, kind models.EventKind, payload []byte) error
}

// LogNotifier writes notifications to the log. It stands in for push/email
// dispatch in development and tests.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, actorID string, kind models.EventKind, payload []byte) error {
	slog.Info("Notification dispatched",
		slog.String("type", "notify"),
		slog.String("actor_id", actorID),
		slog.String("kind", string(kind)),
		slog.String("payload", string(payload)))
	return nil
}
