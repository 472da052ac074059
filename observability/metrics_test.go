package observability

import (
	"chat-feed/domain/chat"
	"chat-feed/moderation"
	"chat-feed/projection"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveContainer(t *testing.T) {
	req := require.New(t)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	rules, err := moderation.NewRuleSet(moderation.Rules{
		MuteWordsEnabled: true,
		MuteWords:        []moderation.MuteWord{{Word: "spam"}},
	})
	req.NoError(err)
	c := projection.New(rules, slog.Default(), projection.WithObserver(metrics))

	c.Append(chat.SystemInput("Live started"))
	c.Append(chat.ChatInput(chat.Event{UserID: "u1", Comment: "spam spam", Premium: chat.PremiumGeneral}))
	c.Append(chat.ChatInput(chat.Event{UserID: "u2", Comment: "hello", Date: time.Now(), Premium: chat.PremiumGeneral}))

	req.Equal(2.0, testutil.ToFloat64(metrics.appended.WithLabelValues("true")))
	req.Equal(1.0, testutil.ToFloat64(metrics.appended.WithLabelValues("false")))
	req.Equal(2.0, testutil.ToFloat64(metrics.filtered))

	// Given muting switched off and a rebuild
	req.NoError(rules.Update(moderation.Rules{}))
	done, started := c.Rebuild()
	req.True(started)
	<-done
	req.Equal(3.0, testutil.ToFloat64(metrics.filtered))
	req.Equal(1, testutil.CollectAndCount(metrics.rebuildDuration))

	e := <-c.EstimateActiveUsers(10 * time.Minute)
	req.True(e.Computed)
	req.Equal(1.0, testutil.ToFloat64(metrics.activeUsers))
}

func TestMetrics_BufferSampled(t *testing.T) {
	req := require.New(t)
	metrics := NewMetrics(prometheus.NewRegistry())

	metrics.BufferSampled("deliveries", 3, 1024)
	metrics.BufferSampled("deliveries", 1, 1024)

	req.Equal(1.0, testutil.ToFloat64(metrics.bufferLength.WithLabelValues("deliveries")))
	req.Equal(1024.0, testutil.ToFloat64(metrics.bufferCapacity.WithLabelValues("deliveries")))
}
