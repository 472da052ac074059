package workers

import (
	"chat-feed/domain/chat"
	"chat-feed/mocks"
	"chat-feed/moderation"
	"chat-feed/projection"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRulesWorker_UpdatesRulesAndWaitsForRebuild(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockMessageStore(ctrl)
	rules, err := moderation.NewRuleSet(moderation.Rules{})
	req.NoError(err)

	done := make(chan struct{})
	close(done)
	store.EXPECT().Rebuild().Return((<-chan struct{})(done), true).Times(1)
	store.EXPECT().Count().Return(2).Times(1)

	changes := make(chan moderation.Rules, 2)
	changes <- moderation.Rules{MuteWordsEnabled: true, MuteWords: []moderation.MuteWord{{Word: "spam"}}}
	// Invalid rules are ignored without a rebuild
	changes <- moderation.Rules{MuteUsers: []moderation.MuteUser{{UserID: ""}}}
	close(changes)

	worker := NewRulesWorker(rules, store, changes, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(worker.Run(context.Background()))

	req.True(rules.Rules().MuteWordsEnabled)
}

func TestRulesWorker_RebuildsRealContainer(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	rules, err := moderation.NewRuleSet(moderation.Rules{})
	req.NoError(err)
	container := projection.New(rules, log)

	container.Append(chat.ChatInput(chat.Event{UserID: "u1", Comment: "buy cheap ads", Premium: chat.PremiumGeneral}))
	container.Append(chat.ChatInput(chat.Event{UserID: "u2", Comment: "hello", Premium: chat.PremiumGeneral}))
	req.Equal(2, container.Count())

	changes := make(chan moderation.Rules, 1)
	changes <- moderation.Rules{MuteUsersEnabled: true, MuteUsers: []moderation.MuteUser{{UserID: "u1"}}}
	close(changes)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req.NoError(NewRulesWorker(rules, container, changes, log).Run(ctx))

	// Then the rebuild completed before the worker returned
	req.Equal(1, container.Count())
	msg, err := container.At(0)
	req.NoError(err)
	req.Equal("u2", msg.UserID())
}
