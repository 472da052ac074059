package workers

import (
	"chat-feed/contract"
	"chat-feed/domain/chat"
	"context"
	"log/slog"
)

// Delivery is one item handed over by the session layer: a message to append,
// or a restart of the broadcast session.
type Delivery struct {
	Input   chat.Input
	Restart bool
}

// IngestionWorker is the single producer of the message container.
type IngestionWorker struct {
	store      contract.MessageStore
	deliveries <-chan Delivery
	log        *slog.Logger
}

func NewIngestionWorker(store contract.MessageStore, deliveries <-chan Delivery, log *slog.Logger) *IngestionWorker {
	return &IngestionWorker{store: store, deliveries: deliveries, log: log}
}

func (w *IngestionWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case d, ok := <-w.deliveries:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			if d.Restart {
				w.log.Info("Session restarted, clearing messages")
				w.store.Clear()
				continue
			}
			w.store.Append(d.Input)
		}
	}
}
