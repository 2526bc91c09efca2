package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every setting the application reads. Sensitive values can
// be overridden through environment variables after loading.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Engine struct {
		InboxSize int `yaml:"inbox_size"`
	} `yaml:"engine"`

	Bus struct {
		SubscriberBuffer int `yaml:"subscriber_buffer"`
	} `yaml:"bus"`

	API struct {
		Binance struct {
			Enabled bool     `yaml:"enabled"`
			WSURL   string   `yaml:"ws_url"`
			RestURL string   `yaml:"rest_url"`
			Symbols []string `yaml:"symbols"`
		} `yaml:"binance"`
	} `yaml:"api"`

	Recorder struct {
		Enabled bool     `yaml:"enabled"`
		Symbols []string `yaml:"symbols"`
	} `yaml:"recorder"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Engine.InboxSize <= 0 {
		return fmt.Errorf("engine inbox size must be positive")
	}
	if c.Bus.SubscriberBuffer <= 0 {
		return fmt.Errorf("bus subscriber buffer must be positive")
	}

	if c.API.Binance.Enabled {
		if !hasPrefix(c.API.Binance.WSURL, "ws://") && !hasPrefix(c.API.Binance.WSURL, "wss://") {
			return fmt.Errorf("invalid Binance WS URL: %s", c.API.Binance.WSURL)
		}
		if len(c.API.Binance.Symbols) == 0 {
			return fmt.Errorf("at least one Binance symbol is required")
		}
	}

	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv replaces configuration values when the matching
// environment variable is set.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("MOCKEX_BINANCE_WS_URL"); url != "" {
		cfg.API.Binance.WSURL = url
	}
	if url := os.Getenv("MOCKEX_BINANCE_REST_URL"); url != "" {
		cfg.API.Binance.RestURL = url
	}
	if level := os.Getenv("MOCKEX_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
