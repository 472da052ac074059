package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Config struct {
	LogLevel         string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	BufferSize       int           `env:"BUFFER_SIZE,default=1024" validate:"gt=0"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	ActivityWindow   time.Duration `env:"ACTIVITY_WINDOW,default=10m" validate:"gt=0"`
	ActivityInterval time.Duration `env:"ACTIVITY_INTERVAL,default=5s" validate:"gt=0"`
	ReportInterval   time.Duration `env:"REPORT_INTERVAL,default=10s" validate:"gt=0"`
	ReportRows       int           `env:"REPORT_ROWS,default=20" validate:"gt=0"`
	MetricInterval   time.Duration `env:"METRIC_INTERVAL,default=1s" validate:"gt=0"`
	DebugAddr        string        `env:"DEBUG_ADDR,default=localhost:8081" validate:"required"`
	ReplayFile       string        `env:"REPLAY_FILE,required=true" validate:"required"`
	ReplayDelay      time.Duration `env:"REPLAY_DELAY,default=0s" validate:"gte=0"`
	RulesFile        string        `env:"RULES_FILE"`
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return config, nil
}
