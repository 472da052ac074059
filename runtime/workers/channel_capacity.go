package workers

import (
	"context"
	"log/slog"
	"reflect"
	"time"
)

// BufferObserver receives the sampled fill level of a named channel.
type BufferObserver interface {
	BufferSampled(name string, length, capacity int)
}

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically samples the length and capacity of the session channels.
// Reading len(channel) and cap(channel) is non-blocking, so this won't interfere
// with the producer or the consumers.
type ChannelCapacityWorker struct {
	log      *slog.Logger
	channels []NamedChannel
	observer BufferObserver
	interval time.Duration
}

func NewChannelCapacityWorker(channels []NamedChannel, observer BufferObserver, interval time.Duration, log *slog.Logger) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:      log,
		channels: channels,
		observer: observer,
		interval: interval,
	}
}

func (w ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel sampling")
			return nil
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w ChannelCapacityWorker) sample() {
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		w.observer.BufferSampled(nc.Name, v.Len(), v.Cap())
	}
}
