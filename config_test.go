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
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("NOVA_BOT_TOKEN", "")

	cfg := DefaultConfig()
	if cfg.Client.MaxRateLimitDelay != -1 {
		t.Fatalf("expected default max rate limit delay -1 (infinite), got %v", cfg.Client.MaxRateLimitDelay)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(`
discord:
  bot_token: ${TEST_NOVA_TOKEN}
client:
  max_rate_limit_delay: 5s
logging:
  level: debug
  output: stdout
`), 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	t.Setenv("TEST_NOVA_TOKEN", "abc123")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Discord.BotToken != "abc123" {
		t.Fatalf("expected expanded env var in bot token, got %q", cfg.Discord.BotToken)
	}
	if cfg.Client.MaxRateLimitDelay != 5*time.Second {
		t.Fatalf("expected max rate limit delay 5s, got %v", cfg.Client.MaxRateLimitDelay)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
