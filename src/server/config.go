package server

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            string        `envconfig:"PORT" default:"9898"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	// UserHeader carries the acting user ID set by the upstream auth layer.
	UserHeader    string `envconfig:"USER_HEADER" default:"X-User-ID"`
	TriggerHeader string `envconfig:"TRIGGER_HEADER" default:"X-Trigger-Type"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
