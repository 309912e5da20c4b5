// Package config loads server configuration from defaults, an optional YAML
// file, and PARTY_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL is the optional Postgres DSN. Empty means no persistence.
	DatabaseURL string `koanf:"database_url"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ClickerDuration is the clicker round length in seconds.
	ClickerDuration int `koanf:"clicker_duration"`

	// QuestionTime is the per-question answer window in seconds.
	QuestionTime int `koanf:"question_time"`

	// GateCountdown is the buzzer arming countdown in seconds.
	GateCountdown int `koanf:"gate_countdown"`

	// CleanupGraceSecs is how long an empty or finished room is kept
	// before teardown.
	CleanupGraceSecs int `koanf:"cleanup_grace_secs"`

	// SendBuffer is the per-connection outbound message buffer.
	SendBuffer int `koanf:"send_buffer"`
}

func Default() Config {
	return Config{
		Addr:             ":8080",
		LogLevel:         "info",
		ClickerDuration:  10,
		QuestionTime:     30,
		GateCountdown:    3,
		CleanupGraceSecs: 300,
		SendBuffer:       16,
	}
}

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. Default()
//  2. YAML file named by PARTY_CONFIG, if set
//  3. env vars with prefix PARTY_ (PARTY_ADDR, PARTY_CLICKER_DURATION, ...)
func Load() (Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path := os.Getenv("PARTY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, err
		}
	}

	envProvider := env.Provider("PARTY_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "party_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return cfg, err
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return cfg, err
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.ClickerDuration <= 0 || c.QuestionTime <= 0 || c.GateCountdown <= 0 {
		return errors.New("game durations must be positive")
	}
	if c.CleanupGraceSecs <= 0 {
		return errors.New("cleanup_grace_secs must be positive")
	}
	if c.SendBuffer <= 0 {
		return errors.New("send_buffer must be positive")
	}
	return nil
}
