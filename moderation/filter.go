package moderation

import (
	"chat-feed/domain/chat"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// ConditionalCommandPrefix marks administrative "show if not seen" commands.
const ConditionalCommandPrefix = "/hb ifseetno "

// Filter is the compiled predicate of one Rules snapshot.
type Filter struct {
	rules      Rules
	words      *WordMatcher
	mutedUsers map[string]struct{}
}

func NewFilter(rules Rules) (*Filter, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	words, err := NewWordMatcher(lo.Map(rules.MuteWords, func(w MuteWord, _ int) string { return w.Word }))
	if err != nil {
		return nil, err
	}
	muted := lo.SliceToMap(rules.MuteUsers, func(u MuteUser) (string, struct{}) {
		return u.UserID, struct{}{}
	})

	rules.MuteWords = slices.Clone(rules.MuteWords)
	rules.MuteUsers = slices.Clone(rules.MuteUsers)
	return &Filter{rules: rules, words: words, mutedUsers: muted}, nil
}

func (f *Filter) Rules() Rules {
	r := f.rules
	r.MuteWords = slices.Clone(r.MuteWords)
	r.MuteUsers = slices.Clone(r.MuteUsers)
	return r
}

// Include reports whether m belongs in the filtered view.
// System notices are always kept. Chat lines are dropped, in order, for hidden
// conditional commands, muted words and muted users.
func (f *Filter) Include(m chat.Message) bool {
	if m.IsSystem() {
		return true
	}
	evt := m.Chat

	if strings.HasPrefix(evt.Comment, ConditionalCommandPrefix) {
		if !f.rules.ShowConditionalCommands {
			return false
		}
		// Channel lives flood these before the broadcast starts.
		since := f.rules.ShowCommandsSince
		if !evt.Date.IsZero() && !since.IsZero() && evt.Date.Before(since) {
			return false
		}
	}

	if f.rules.MuteWordsEnabled && f.words.Contains(evt.Comment) {
		return false
	}

	if f.rules.MuteUsersEnabled && evt.UserID != "" {
		if _, muted := f.mutedUsers[evt.UserID]; muted {
			return false
		}
	}
	return true
}
