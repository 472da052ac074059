package chat

import (
	"time"
)

// Kind tells which variant a Message holds.
type Kind int

const (
	KindSystem Kind = iota
	KindChat
)

// Message is an entry of the container: either a system notice or a chat line.
// The variant is fixed at construction. Messages are plain values, so a copy
// handed to a reader never aliases the stored history.
type Message struct {
	No        uint64
	Kind      Kind
	Text      string
	Chat      Event
	FirstChat bool
}

func NewSystemMessage(no uint64, text string) Message {
	return Message{No: no, Kind: KindSystem, Text: text}
}

func NewChatMessage(no uint64, evt Event, firstChat bool) Message {
	return Message{No: no, Kind: KindChat, Chat: evt, FirstChat: firstChat}
}

func (m Message) IsSystem() bool {
	return m.Kind == KindSystem
}

// UserID returns the sender id of a chat line, or "" for system notices and anonymous lines.
func (m Message) UserID() string {
	if m.Kind != KindChat {
		return ""
	}
	return m.Chat.UserID
}

// Date returns the chat timestamp, zero when absent or for system notices.
func (m Message) Date() time.Time {
	if m.Kind != KindChat {
		return time.Time{}
	}
	return m.Chat.Date
}

// IsUserComment reports whether the message is a chat line counting toward user activity.
func (m Message) IsUserComment() bool {
	return m.Kind == KindChat && m.Chat.IsUserComment()
}

// Input is what a producer hands to the container. Build it with SystemInput or ChatInput;
// the zero value carries no shape and is rejected.
type Input struct {
	kind  Kind
	valid bool
	text  string
	event Event
}

func SystemInput(text string) Input {
	return Input{kind: KindSystem, valid: true, text: text}
}

func ChatInput(evt Event) Input {
	return Input{kind: KindChat, valid: true, event: evt}
}

func (i Input) Valid() bool {
	return i.valid
}

func (i Input) Kind() Kind {
	return i.kind
}

func (i Input) Text() string {
	return i.text
}

func (i Input) Event() Event {
	return i.event
}
