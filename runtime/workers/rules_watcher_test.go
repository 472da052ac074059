package workers

import (
	"chat-feed/moderation"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitRules(t *testing.T, changes <-chan moderation.Rules, match func(moderation.Rules) bool) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case r := <-changes:
			if match(r) {
				return
			}
		case <-timeout:
			t.Fatal("expected rules were never published")
		}
	}
}

// replaceFile swaps path for new content in one rename, the way editors save.
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o600))
	require.NoError(t, os.Rename(tmp, path))
}

func TestRulesWatcher_PublishesOnStartAndOnWrite(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	req.NoError(os.WriteFile(path, []byte("showConditionalCommands: true\n"), 0o600))

	changes := make(chan moderation.Rules, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 1)
	go func() { errs <- NewRulesWatcher(path, moderation.Rules{}, changes, slog.Default()).Run(ctx) }()

	// Then the file is published at start
	waitRules(t, changes, func(r moderation.Rules) bool { return r.ShowConditionalCommands })

	// Given an edited file, then the new rules are published
	content := "muteWordsEnabled: true\nmuteWords:\n  - word: spam\n"
	req.NoError(os.WriteFile(path, []byte(content), 0o600))
	waitRules(t, changes, func(r moderation.Rules) bool {
		return r.MuteWordsEnabled && len(r.MuteWords) == 1 && r.MuteWords[0].Word == "spam"
	})

	cancel()
	req.ErrorIs(<-errs, context.Canceled)
}

func TestRulesWatcher_SkipsUnchangedRules(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "muteWordsEnabled: true\nmuteWords:\n  - word: spam\n"
	req.NoError(os.WriteFile(path, []byte(content), 0o600))
	current, err := moderation.LoadRules(path)
	req.NoError(err)

	changes := make(chan moderation.Rules, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 1)
	go func() { errs <- NewRulesWatcher(path, current, changes, slog.Default()).Run(ctx) }()

	// Given the rules in force saved again, then new rules
	replaceFile(t, path, content)
	replaceFile(t, path, "muteUsersEnabled: true\nmuteUsers:\n  - userId: u1\n")

	// Then the first publication is the change, never the unchanged file
	select {
	case r := <-changes:
		req.True(r.MuteUsersEnabled)
		req.False(r.MuteWordsEnabled)
	case <-time.After(5 * time.Second):
		t.Fatal("changed rules were never published")
	}

	cancel()
	req.ErrorIs(<-errs, context.Canceled)
}
