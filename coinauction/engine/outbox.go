package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/hypemarket/coinauction/coinauction/database/repositories"
)

const (
	outboxBatchSize    = 100
	outboxPollInterval = 500 * time.Millisecond
)

// OutboxDispatcher drains pending notification intents and hands them to the
// Notifier. Delivery is at-least-once: a message is marked sent only after
// the notifier accepted it.
type OutboxDispatcher struct {
	outbox   repositories.OutboxRepository
	notifier Notifier
	interval time.Duration
	shutdown chan struct{}
}

func NewOutboxDispatcher(outbox repositories.OutboxRepository, notifier Notifier) *OutboxDispatcher {
	return &OutboxDispatcher{
		outbox:   outbox,
		notifier: notifier,
		interval: outboxPollInterval,
		shutdown: make(chan struct{}),
	}
}

func (d *OutboxDispatcher) Start() {
	go d.run()
}

func (d *OutboxDispatcher) run() {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			d.DispatchPending(ctx)
			cancel()
		case <-d.shutdown:
			return
		}
	}
}

// DispatchPending processes one batch. Exported so tests and one-shot
// schedulers can drive the dispatcher directly.
func (d *OutboxDispatcher) DispatchPending(ctx context.Context) {
	msgs, err := d.outbox.GetPending(ctx, outboxBatchSize)
	if err != nil {
		slog.Error("Failed to fetch pending notifications",
			slog.String("error", err.Error()))
		return
	}

	for _, msg := range msgs {
		if err := d.notifier.Notify(ctx, msg.ActorID, msg.Kind, msg.Payload); err != nil {
			slog.Error("Failed to dispatch notification",
				slog.Int64("outbox_id", msg.ID),
				slog.String("kind", string(msg.Kind)),
				slog.String("error", err.Error()))

			if err := d.outbox.MarkFailed(ctx, msg.ID); err != nil {
				slog.Error("Failed to record notification failure",
					slog.Int64("outbox_id", msg.ID),
					slog.String("error", err.Error()))
			}
			continue
		}

		if err := d.outbox.MarkSent(ctx, msg.ID); err != nil {
			slog.Error("Failed to mark notification sent",
				slog.Int64("outbox_id", msg.ID),
				slog.String("error", err.Error()))
		}
	}
}

func (d *OutboxDispatcher) Shutdown() {
	close(d.shutdown)
	slog.Info("Outbox dispatcher shutdown completed")
}
