// Package moderation decides which chat lines reach the filtered view.
// Rules are supplied from outside at runtime; Filter is their compiled, immutable form.
package moderation

import (
	"chat-feed/errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type MuteWord struct {
	Word string
}

type MuteUser struct {
	UserID string `validate:"required"`
}

// Rules is a snapshot of the user's filter settings.
type Rules struct {
	ShowConditionalCommands bool
	// ShowCommandsSince hides conditional commands posted before it even when they are shown.
	ShowCommandsSince time.Time
	MuteWordsEnabled  bool
	MuteWords         []MuteWord `validate:"dive"`
	MuteUsersEnabled  bool
	MuteUsers         []MuteUser `validate:"dive"`
}

func (r Rules) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRules, err)
	}
	return nil
}

// Equal reports whether both snapshots filter messages the same way.
func (r Rules) Equal(other Rules) bool {
	return r.ShowConditionalCommands == other.ShowConditionalCommands &&
		r.ShowCommandsSince.Equal(other.ShowCommandsSince) &&
		r.MuteWordsEnabled == other.MuteWordsEnabled &&
		slices.Equal(r.MuteWords, other.MuteWords) &&
		r.MuteUsersEnabled == other.MuteUsersEnabled &&
		slices.Equal(r.MuteUsers, other.MuteUsers)
}

// RuleSet holds the filter currently in force. Readers always see a complete
// compiled snapshot, never a half-applied update.
type RuleSet struct {
	current atomic.Pointer[Filter]
}

func NewRuleSet(rules Rules) (*RuleSet, error) {
	rs := &RuleSet{}
	if err := rs.Update(rules); err != nil {
		return nil, err
	}
	return rs, nil
}

// Current returns the filter to evaluate messages against.
func (rs *RuleSet) Current() *Filter {
	return rs.current.Load()
}

func (rs *RuleSet) Rules() Rules {
	return rs.Current().Rules()
}

// Update validates and compiles rules, then makes them current.
// Callers rebuild the filtered view afterwards.
func (rs *RuleSet) Update(rules Rules) error {
	f, err := NewFilter(rules)
	if err != nil {
		return err
	}
	rs.current.Store(f)
	return nil
}
