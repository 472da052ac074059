package moderation

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type rulesFile struct {
	ShowConditionalCommands bool            `yaml:"showConditionalCommands"`
	ShowCommandsSince       string          `yaml:"showCommandsSince"`
	MuteWordsEnabled        bool            `yaml:"muteWordsEnabled"`
	MuteWords               []rulesFileWord `yaml:"muteWords"`
	MuteUsersEnabled        bool            `yaml:"muteUsersEnabled"`
	MuteUsers               []rulesFileUser `yaml:"muteUsers"`
}

type rulesFileWord struct {
	Word string `yaml:"word"`
}

type rulesFileUser struct {
	UserID string `yaml:"userId"`
}

// LoadRules reads filter rules from a YAML file. showCommandsSince is RFC 3339.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, err
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (Rules, error) {
	var parsed rulesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Rules{}, fmt.Errorf("parsing rules: %w", err)
	}

	rules := Rules{
		ShowConditionalCommands: parsed.ShowConditionalCommands,
		MuteWordsEnabled:        parsed.MuteWordsEnabled,
		MuteUsersEnabled:        parsed.MuteUsersEnabled,
	}
	if parsed.ShowCommandsSince != "" {
		since, err := time.Parse(time.RFC3339, parsed.ShowCommandsSince)
		if err != nil {
			return Rules{}, fmt.Errorf("parsing showCommandsSince: %w", err)
		}
		rules.ShowCommandsSince = since
	}
	for _, w := range parsed.MuteWords {
		rules.MuteWords = append(rules.MuteWords, MuteWord{Word: w.Word})
	}
	for _, u := range parsed.MuteUsers {
		rules.MuteUsers = append(rules.MuteUsers, MuteUser{UserID: u.UserID})
	}
	return rules, rules.Validate()
}
