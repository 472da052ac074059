package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("REPLAY_FILE", "session.jsonl")

	config, err := LoadConfig()
	req.NoError(err)
	req.Equal("INFO", config.LogLevel)
	req.Equal(10*time.Minute, config.ActivityWindow)
	req.Equal(20, config.ReportRows)
	req.Equal(time.Second, config.MetricInterval)
	req.Equal("session.jsonl", config.ReplayFile)
	req.Empty(config.RulesFile)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("REPLAY_FILE", "session.jsonl")
	t.Setenv("LOG_LEVEL", "LOUD")

	_, err := LoadConfig()
	require.Error(t, err)
}
