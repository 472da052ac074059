package projection

import (
	"chat-feed/domain/chat"
	"chat-feed/moderation"
)

// Rebuild recomputes the filtered view from the whole source log with the rules
// current at call time. It returns a channel closed once the new view is in place.
//
// The first pass filters the first n source messages on a background goroutine without
// holding the lock. The second pass, under the lock, swaps the new view in and filters
// the messages appended since the snapshot, so nothing appended meanwhile is lost.
//
// Only one rebuild runs at a time: while one is in flight Rebuild returns (nil, false).
func (c *Container) Rebuild() (done <-chan struct{}, started bool) {
	c.mu.Lock()
	if c.rebuilding {
		c.mu.Unlock()
		c.log.Debug("Rebuild already in progress, skipping")
		return nil, false
	}
	c.rebuilding = true
	filter := c.rules.Current()
	snapshot := c.source
	epoch := c.epoch
	c.mu.Unlock()

	ch := make(chan struct{})
	go func() {
		defer close(ch)
		start := c.now()

		working := filterInto(filter, snapshot, make([]chat.Message, 0, len(snapshot)))
		count, delta, applied := c.splice(filter, working, len(snapshot), epoch)
		if !applied {
			c.log.Debug("Container cleared during rebuild, dropping result")
			return
		}

		elapsed := c.now().Sub(start)
		c.log.Debug("Completed to rebuild filtered messages",
			"source", len(snapshot)+delta,
			"delta", delta,
			"filtered", count,
			"duration", elapsed)
		c.observer.RebuildCompleted(elapsed, count)
	}()
	return ch, true
}

// splice installs working as the filtered view and appends what arrived after source[n].
func (c *Container) splice(filter *moderation.Filter, working []chat.Message, n int, epoch uint64) (count, delta int, applied bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.rebuilding = false }()

	if epoch != c.epoch {
		return len(c.filtered), 0, false
	}

	pending := c.source[n:]
	c.filtered = filterInto(filter, pending, working)
	return len(c.filtered), len(pending), true
}

func filterInto(filter *moderation.Filter, messages, into []chat.Message) []chat.Message {
	for _, m := range messages {
		if filter.Include(m) {
			into = append(into, m)
		}
	}
	return into
}
