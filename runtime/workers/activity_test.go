package workers

import (
	"chat-feed/mocks"
	"chat-feed/projection"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func resolved(e projection.Estimate) <-chan projection.Estimate {
	ch := make(chan projection.Estimate, 1)
	ch <- e
	close(ch)
	return ch
}

func TestActivityWorker_Estimate(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockMessageStore(ctrl)

	gomock.InOrder(
		store.EXPECT().EstimateActiveUsers(10*time.Minute).Return(resolved(projection.Estimate{})),
		store.EXPECT().EstimateActiveUsers(10*time.Minute).Return(resolved(projection.Estimate{Count: 4, Computed: true})),
		store.EXPECT().EstimateActiveUsers(10*time.Minute).Return(resolved(projection.Estimate{})),
	)

	w := NewActivityWorker(store, 10*time.Minute, time.Second, slog.Default())
	ctx := context.Background()

	// Given a skipped estimation, then nothing is known yet
	req.NoError(w.estimate(ctx))
	_, ok := w.ActiveUsers()
	req.False(ok)

	// Given a computed estimation, then it becomes the latest value
	req.NoError(w.estimate(ctx))
	n, ok := w.ActiveUsers()
	req.True(ok)
	req.Equal(4, n)

	// Given another skipped estimation, then the previous value is kept
	req.NoError(w.estimate(ctx))
	n, ok = w.ActiveUsers()
	req.True(ok)
	req.Equal(4, n)
}

func TestActivityWorker_RunTicks(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockMessageStore(ctrl)
	store.EXPECT().
		EstimateActiveUsers(time.Minute).
		DoAndReturn(func(time.Duration) <-chan projection.Estimate {
			return resolved(projection.Estimate{Count: 7, Computed: true})
		}).
		MinTimes(1)

	w := NewActivityWorker(store, time.Minute, 10*time.Millisecond, slog.Default())
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := w.Run(ctx)
	req.ErrorIs(err, context.DeadlineExceeded)
	n, ok := w.ActiveUsers()
	req.True(ok)
	req.Equal(7, n)
}
