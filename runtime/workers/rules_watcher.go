package workers

import (
	"chat-feed/moderation"
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// RulesWatcher loads the rules file at start and again every time it is written,
// publishing each valid version on changes. A version equal to the last published one,
// starting with the rules already in force, is not published again.
type RulesWatcher struct {
	path    string
	last    moderation.Rules
	changes chan<- moderation.Rules
	log     *slog.Logger
}

func NewRulesWatcher(path string, current moderation.Rules, changes chan<- moderation.Rules, log *slog.Logger) *RulesWatcher {
	return &RulesWatcher{path: path, last: current, changes: changes, log: log}
}

func (w *RulesWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory rather than the file.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	if err := w.publish(ctx); err != nil {
		return err
	}

	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != target || !evt.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := w.publish(ctx); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Rules watcher error", "error", err)
		}
	}
}

func (w *RulesWatcher) publish(ctx context.Context) error {
	rules, err := moderation.LoadRules(w.path)
	if err != nil {
		w.log.Warn("Cannot load rules file", "path", w.path, "error", err)
		return nil
	}
	if rules.Equal(w.last) {
		w.log.Debug("Rules file unchanged", "path", w.path)
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case w.changes <- rules:
		w.last = rules
		w.log.Debug("Rules file loaded", "path", w.path)
		return nil
	}
}
