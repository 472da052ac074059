package workers

import (
	"chat-feed/contract"
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// ActivityWorker asks the container for the number of recently active users on every tick.
// Skipped estimations are not retried until the next tick.
type ActivityWorker struct {
	store    contract.MessageStore
	window   time.Duration
	interval time.Duration
	log      *slog.Logger
	latest   atomic.Int64
}

func NewActivityWorker(store contract.MessageStore, window, interval time.Duration, log *slog.Logger) *ActivityWorker {
	w := &ActivityWorker{store: store, window: window, interval: interval, log: log}
	w.latest.Store(-1)
	return w
}

// ActiveUsers returns the last computed estimate; false until one has been computed.
func (w *ActivityWorker) ActiveUsers() (int, bool) {
	n := w.latest.Load()
	return int(n), n >= 0
}

func (w *ActivityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping activity estimation")
			return ctx.Err()
		case <-ticker.C:
			if err := w.estimate(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *ActivityWorker) estimate(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-w.store.EstimateActiveUsers(w.window):
		if !e.Computed {
			w.log.Debug("Active users estimation skipped")
			return nil
		}
		w.latest.Store(int64(e.Count))
		w.log.Debug("Active users estimated", "users", e.Count, "window", w.window)
		return nil
	}
}
