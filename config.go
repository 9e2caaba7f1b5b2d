/************************************************************************************
 *
 * nova, a lightweight client SDK for chat-platform REST & Gateway APIs
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 * Copyright 2025 The Nova Authors
 *
 * Licensed under the BSD 3-Clause License.
 * See the LICENSE file for details.
 *
 ************************************************************************************/

package nova

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk, YAML-backed counterpart to the functional
// clientOptions: everything here can also be set programmatically via
// WithToken/WithIntents/etc, but operators who prefer a config file over
// compiled-in options can load one with LoadConfig and pass it to
// WithConfig.
type Config struct {
	Discord DiscordConfig `yaml:"discord"`
	Client  ClientConfig  `yaml:"client"`
	Logging LoggingConfig `yaml:"logging"`
}

// DiscordConfig holds the bot identity.
type DiscordConfig struct {
	BotToken string `yaml:"bot_token"`
}

// ClientConfig holds HTTP/Gateway tuning knobs.
type ClientConfig struct {
	MaxRateLimitDelay time.Duration `yaml:"max_rate_limit_delay"`
}

// LoggingConfig controls the default logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

// LoadConfig reads and parses a YAML config file, expanding ${VAR}/$VAR
// environment references before unmarshalling, then applies defaults to
// any field left zero.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("nova: reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("nova: parsing config file: %w", err)
	}

	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// DefaultConfig returns a Config populated from environment variables and
// sane defaults, with no file to read.
func DefaultConfig() *Config {
	cfg := &Config{Discord: DiscordConfig{BotToken: os.Getenv("NOVA_BOT_TOKEN")}}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *Config) {
	if cfg.Client.MaxRateLimitDelay == 0 {
		cfg.Client.MaxRateLimitDelay = -1 // ratelimit.Infinite
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}

func (c LoggingConfig) level() LogLevel {
	switch c.Level {
	case "debug":
		return LogLevelDebugLevel
	case "warn":
		return LogLevelWarnLevel
	case "error":
		return LogLevelErrorLevel
	default:
		return LogLevelInfoLevel
	}
}

func (c LoggingConfig) writer() *os.File {
	if c.Output == "stdout" {
		return os.Stdout
	}
	return os.Stderr
}

// WithConfig applies a Config loaded via LoadConfig or DefaultConfig. Like
// every clientOption, later options passed to New override earlier ones, so
// pass WithConfig first if an explicit WithToken/WithLogger should win.
func WithConfig(cfg *Config) clientOption {
	return func(c *Client) {
		if cfg == nil {
			return
		}
		if cfg.Discord.BotToken != "" {
			WithToken(cfg.Discord.BotToken)(c)
		}
		c.maxRateLimitDelay = cfg.Client.MaxRateLimitDelay
		c.Logger = NewDefaultLogger(cfg.Logging.writer(), cfg.Logging.level())
	}
}
