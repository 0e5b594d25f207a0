package client

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds client settings, read from CHATFORM_* variables.
type Config struct {
	APIURL       string        `envconfig:"API_URL" default:"http://localhost:8000"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"10s"`
	Conversation string        `envconfig:"CONVERSATION"`
	Lang         string        `envconfig:"LANG" default:"en"`
	LogFile      string        `envconfig:"LOG_FILE" default:"chatform.log"`
	RateLimit    float64       `envconfig:"RATE_LIMIT" default:"20"`
}

// LoadConfig reads the client configuration from the environment
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("chatform", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load client config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the defaults without reading the environment
func DefaultConfig() Config {
	return Config{
		APIURL:    "http://localhost:8000",
		Timeout:   10 * time.Second,
		Lang:      "en",
		LogFile:   "chatform.log",
		RateLimit: 20,
	}
}
