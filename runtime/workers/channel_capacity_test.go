package workers

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sample struct {
	name             string
	length, capacity int
}

type recordingObserver struct {
	mu      sync.Mutex
	samples []sample
}

func (o *recordingObserver) BufferSampled(name string, length, capacity int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.samples = append(o.samples, sample{name, length, capacity})
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.samples)
}

func TestChannelCapacityWorker_Sample(t *testing.T) {
	req := require.New(t)
	deliveries := make(chan Delivery, 4)
	deliveries <- Delivery{}
	deliveries <- Delivery{}
	observer := &recordingObserver{}

	w := NewChannelCapacityWorker([]NamedChannel{
		{Name: "deliveries", Channel: deliveries},
		{Name: "not_a_channel", Channel: 42},
	}, observer, time.Second, slog.Default())
	w.sample()

	// Then only the real channel is reported
	req.Equal([]sample{{"deliveries", 2, 4}}, observer.samples)
}

func TestChannelCapacityWorker_RunStopsOnCancel(t *testing.T) {
	req := require.New(t)
	observer := &recordingObserver{}
	w := NewChannelCapacityWorker([]NamedChannel{
		{Name: "deliveries", Channel: make(chan Delivery, 1)},
	}, observer, 5*time.Millisecond, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	req.Eventually(func() bool { return observer.count() > 0 }, time.Second, 5*time.Millisecond)
	cancel()
	req.NoError(<-errCh)
}
