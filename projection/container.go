// Package projection keeps the filtered view of a live chat session.
// It owns the append-only source log and the filtered projection derived from it.
// Does not emit events or interact with UI directly.
package projection

import (
	"chat-feed/domain/chat"
	"chat-feed/errors"
	"chat-feed/moderation"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Observer is notified after container operations complete, outside the lock.
type Observer interface {
	MessageAppended(included bool, filtered int)
	RebuildCompleted(duration time.Duration, filtered int)
	ActiveUsersEstimated(users int)
}

type nopObserver struct{}

func (nopObserver) MessageAppended(bool, int)           {}
func (nopObserver) RebuildCompleted(time.Duration, int) {}
func (nopObserver) ActiveUsersEstimated(int)            {}

type Option func(*Container)

// WithClock replaces time.Now for the activity window and rebuild timings.
func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.now = now }
}

func WithObserver(o Observer) Option {
	return func(c *Container) { c.observer = o }
}

// Container is safe for one producer appending and any number of concurrent readers.
// Every field below mu is guarded by it. Entries of source below its current length
// are never written again, so a slice header taken under the lock can be read without it.
type Container struct {
	id       uuid.UUID
	rules    *moderation.RuleSet
	log      *slog.Logger
	now      func() time.Time
	observer Observer

	mu         sync.Mutex
	source     []chat.Message
	filtered   []chat.Message
	firstChat  map[string]bool
	next       uint64
	epoch      uint64
	rebuilding bool
	estimating bool
}

func New(rules *moderation.RuleSet, log *slog.Logger, opts ...Option) *Container {
	c := &Container{
		id:        uuid.New(),
		rules:     rules,
		log:       log,
		now:       time.Now,
		observer:  nopObserver{},
		firstChat: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("session", c.id)
	return c
}

func (c *Container) ID() uuid.UUID {
	return c.id
}

// Append stores in at the end of the source log and, when the current rules accept it,
// at the end of the filtered view. It returns whether the filtered view grew and its size.
// Panics with errors.ErrMalformedInput on an Input built without SystemInput or ChatInput.
func (c *Container) Append(in chat.Input) (appended bool, count int) {
	if !in.Valid() {
		panic(errors.ErrMalformedInput)
	}

	c.mu.Lock()
	msg := c.newMessage(in)
	c.source = append(c.source, msg)
	if c.rules.Current().Include(msg) {
		c.filtered = append(c.filtered, msg)
		appended = true
	}
	count = len(c.filtered)
	c.mu.Unlock()

	c.observer.MessageAppended(appended, count)
	return appended, count
}

// newMessage numbers the input and flags a user's first counting comment.
func (c *Container) newMessage(in chat.Input) chat.Message {
	no := c.next
	c.next++

	if in.Kind() == chat.KindSystem {
		return chat.NewSystemMessage(no, in.Text())
	}

	evt := in.Event()
	first := false
	if evt.IsUserComment() && evt.UserID != "" && !c.firstChat[evt.UserID] {
		c.firstChat[evt.UserID] = true
		first = true
	}
	return chat.NewChatMessage(no, evt, first)
}

// Count returns the length of the filtered view.
func (c *Container) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.filtered)
}

// At returns the i-th message of the filtered view.
func (c *Container) At(i int) (chat.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.filtered) {
		return chat.Message{}, fmt.Errorf("%w: %d not in [0, %d)", errors.ErrIndexOutOfRange, i, len(c.filtered))
	}
	return c.filtered[i], nil
}

// MessagesFromUser returns every chat line the user posted, muted or not, in arrival order.
// The result is a copy.
func (c *Container) MessagesFromUser(userID string) []chat.Message {
	if userID == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return lo.Filter(c.source, func(m chat.Message, _ int) bool {
		return m.UserID() == userID
	})
}

// Snapshot returns a copy of the last limit messages of the filtered view, all of them when limit <= 0.
func (c *Container) Snapshot(limit int) []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := 0
	if limit > 0 && len(c.filtered) > limit {
		start = len(c.filtered) - limit
	}
	out := make([]chat.Message, len(c.filtered)-start)
	copy(out, c.filtered[start:])
	return out
}

// Clear empties both logs and the first-chat memory and restarts numbering at zero.
// A rebuild still running when Clear is called drops its result.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = nil
	c.filtered = nil
	c.firstChat = make(map[string]bool)
	c.next = 0
	c.epoch++
	c.log.Debug("Cleared message container")
}
