package moderation

import (
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// WordMatcher finds muted words inside a comment, ignoring case.
// A nil matcher (no usable words) never matches.
type WordMatcher struct {
	matcher *goahocorasick.Machine
}

// NewWordMatcher initializes the Aho-Corasick automaton with the lowercased, non-empty words.
func NewWordMatcher(words []string) (*WordMatcher, error) {
	patterns := lo.Uniq(lo.FilterMap(words, func(word string, _ int) (string, bool) {
		lowered := strings.ToLower(word)
		return lowered, lowered != ""
	}))
	if len(patterns) == 0 {
		return &WordMatcher{}, nil
	}
	sort.Strings(patterns)

	m := new(goahocorasick.Machine)
	if err := m.Build(lo.Map(patterns, func(p string, _ int) []rune { return []rune(p) })); err != nil {
		return nil, err
	}
	return &WordMatcher{matcher: m}, nil
}

// Contains reports whether any muted word is a substring of text, case-insensitively.
func (w *WordMatcher) Contains(text string) bool {
	if w == nil || w.matcher == nil || text == "" {
		return false
	}
	terms := w.matcher.MultiPatternSearch([]rune(strings.ToLower(text)), true)
	return len(terms) > 0
}
