// Package chat contains the records flowing through a broadcast session.
// This file defines the chat Event payload and its classification rules.
// No runtime, network, or UI logic should be added here.
package chat

import (
	"time"
)

// Premium classifies the sender of a chat line.
type Premium int

const (
	PremiumUnknown Premium = iota - 1
	PremiumGeneral
	PremiumMember
	PremiumSystem
	PremiumCaster
	PremiumBackstage
)

// IsUserComment reports whether a sender class counts toward user activity.
// Only general and member (premium) users count.
func IsUserComment(p Premium) bool {
	switch p {
	case PremiumGeneral, PremiumMember:
		return true
	default:
		return false
	}
}

// RoomPosition is the room the line was posted from (arena, stand A, stand B, ...).
type RoomPosition int

// Event is a chat line as delivered by the session layer.
// UserID and Date are optional: empty string and zero time mean absent.
type Event struct {
	UserID  string
	Date    time.Time
	Comment string
	Room    RoomPosition
	No      int
	Premium Premium
}

func (e Event) IsUserComment() bool {
	return IsUserComment(e.Premium)
}

// IsRawUserID reports whether id is a plain numeric account id rather than an anonymous hash.
func IsRawUserID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
