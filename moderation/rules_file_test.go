package moderation

import (
	"chat-feed/errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRules(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
showConditionalCommands: true
showCommandsSince: 2024-03-01T20:00:00Z
muteWordsEnabled: true
muteWords:
  - word: spam
  - word: Ads
muteUsersEnabled: true
muteUsers:
  - userId: "123"
`
	req.NoError(os.WriteFile(path, []byte(content), 0o600))

	rules, err := LoadRules(path)
	req.NoError(err)
	req.Equal(Rules{
		ShowConditionalCommands: true,
		ShowCommandsSince:       time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC),
		MuteWordsEnabled:        true,
		MuteWords:               []MuteWord{{"spam"}, {"Ads"}},
		MuteUsersEnabled:        true,
		MuteUsers:               []MuteUser{{"123"}},
	}, rules)
}

func TestParseRules_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Broken YAML", content: "muteWords: [\n"},
		{name: "Bad timestamp", content: "showCommandsSince: yesterday\n"},
		{name: "Muted user without id", content: "muteUsers:\n  - userId: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.content))
			require.Error(t, err)
		})
	}

	_, err := ParseRules([]byte("muteUsers:\n  - userId: \"\"\n"))
	require.ErrorIs(t, err, errors.ErrInvalidRules)
}

func TestParseRules_Empty(t *testing.T) {
	rules, err := ParseRules(nil)
	require.NoError(t, err)
	require.Equal(t, Rules{}, rules)
}

func TestRules_Equal(t *testing.T) {
	req := require.New(t)
	content := []byte(`
showCommandsSince: 2024-03-01T21:00:00+01:00
muteWordsEnabled: true
muteWords:
  - word: spam
`)
	first, err := ParseRules(content)
	req.NoError(err)
	second, err := ParseRules(content)
	req.NoError(err)

	// Then the same file read twice gives equal rules
	req.True(first.Equal(second))

	// Given the same instant in another zone, then they are still equal
	second.ShowCommandsSince = first.ShowCommandsSince.UTC()
	req.True(first.Equal(second))

	// Given a different word list, then they differ
	second.MuteWords = append(second.MuteWords, MuteWord{Word: "ads"})
	req.False(first.Equal(second))

	// Then no words and an empty list are the same
	req.True(Rules{}.Equal(Rules{MuteWords: []MuteWord{}}))
	req.False(Rules{}.Equal(Rules{MuteUsersEnabled: true}))
}
