package projection

import (
	"chat-feed/domain/chat"
	"time"
)

// Estimate is the outcome of EstimateActiveUsers. Computed is false when the request
// was skipped, which is different from zero active users.
type Estimate struct {
	Count    int
	Computed bool
}

// EstimateActiveUsers counts distinct users who posted a counting comment within window.
// The scan walks the source log backward on a background goroutine and stops at the first
// counting comment older than the window. Requests made while a rebuild or another
// estimation is running are skipped, not queued.
// The returned channel receives exactly one Estimate and is then closed.
func (c *Container) EstimateActiveUsers(window time.Duration) <-chan Estimate {
	result := make(chan Estimate, 1)

	c.mu.Lock()
	switch {
	case c.rebuilding:
		c.mu.Unlock()
		c.log.Debug("Detected rebuilding filtered messages, skip estimating active users")
		result <- Estimate{}
		close(result)
		return result
	case c.estimating:
		c.mu.Unlock()
		c.log.Debug("Detected duplicate estimation, skip estimating active users")
		result <- Estimate{}
		close(result)
		return result
	}
	c.estimating = true
	snapshot := c.source
	c.mu.Unlock()

	go func() {
		defer close(result)
		users := countActiveUsers(snapshot, c.now().Add(-window))

		c.mu.Lock()
		c.estimating = false
		c.mu.Unlock()

		c.observer.ActiveUsersEstimated(users)
		result <- Estimate{Count: users, Computed: true}
	}()
	return result
}

func countActiveUsers(messages []chat.Message, since time.Time) int {
	users := make(map[string]struct{})
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if !m.IsUserComment() {
			continue
		}
		date, userID := m.Date(), m.UserID()
		if date.IsZero() || userID == "" {
			continue
		}
		if date.Before(since) {
			break
		}
		users[userID] = struct{}{}
	}
	return len(users)
}
