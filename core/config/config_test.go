package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsToLongpoll(t *testing.T) {
	path := writeConfig(t, "telegram:\n  token: test-token\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, expected %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
}

func TestNormalizeRejectsMissingToken(t *testing.T) {
	err := Normalize(&Config{})
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestNormalizeWebhookRequiresEndpoint(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "t"
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected webhook validation error")
	}
	cfg.Webhook.URL = "https://example.org/hook"
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	if err := Normalize(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizeExcludeUpdates(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "t"
	cfg.RateLimit.ExcludeUpdates = []string{" Chat_Member ", "callback"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateChatMember {
		t.Fatalf("exclude[0] = %q, expected %q", cfg.RateLimit.ExcludeUpdates[0], UpdateChatMember)
	}

	cfg.RateLimit.ExcludeUpdates = []string{"poll"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected invalid exclude_updates error")
	}
}

func TestNormalizeRequiredPrivileges(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "t"
	cfg.Membership.RequiredPrivileges = []string{" Can_Pin_Messages ", "can_invite_users"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Membership.RequiredPrivileges[0] != "can_pin_messages" {
		t.Fatalf("required[0] = %q, expected normalized name", cfg.Membership.RequiredPrivileges[0])
	}
	if got := cfg.Membership.Privileges(); len(got) != 2 {
		t.Fatalf("Privileges() = %v, expected 2 entries", got)
	}

	cfg.Membership.RequiredPrivileges = []string{"can_levitate"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected invalid required_privileges error")
	}
}
