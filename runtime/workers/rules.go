package workers

import (
	"chat-feed/contract"
	"chat-feed/moderation"
	"context"
	"log/slog"
)

// RulesWorker applies filter rule changes and rebuilds the filtered view.
// It waits for each rebuild to complete before taking the next change,
// so rebuilds never overlap.
type RulesWorker struct {
	rules   *moderation.RuleSet
	store   contract.MessageStore
	changes <-chan moderation.Rules
	log     *slog.Logger
}

func NewRulesWorker(rules *moderation.RuleSet, store contract.MessageStore,
	changes <-chan moderation.Rules, log *slog.Logger) *RulesWorker {
	return &RulesWorker{rules: rules, store: store, changes: changes, log: log}
}

func (w *RulesWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case rules, ok := <-w.changes:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			if err := w.apply(ctx, rules); err != nil {
				return err
			}
		}
	}
}

func (w *RulesWorker) apply(ctx context.Context, rules moderation.Rules) error {
	if err := w.rules.Update(rules); err != nil {
		w.log.Warn("Ignoring invalid filter rules", "error", err)
		return nil
	}

	done, started := w.store.Rebuild()
	if !started {
		w.log.Warn("Rebuild already running, rules will apply to new messages only")
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}
	w.log.Info("Filtered view rebuilt",
		"count", w.store.Count(),
		"muteWords", len(rules.MuteWords),
		"muteUsers", len(rules.MuteUsers))
	return nil
}
