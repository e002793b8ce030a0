package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Bloinx/investco/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// A missing file is fine; everything falls back to defaults.
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Box.ContributionAmount != 100 || cfg.Box.NumPayments != 12 {
		t.Fatalf("unexpected box defaults: %+v", cfg.Box)
	}
	if cfg.Box.PayTimeSeconds != int64(7*24*time.Hour/time.Second) {
		t.Fatalf("expected weekly pay time, got %d seconds", cfg.Box.PayTimeSeconds)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Fatalf("expected default bcrypt cost 12, got %d", cfg.Auth.BcryptCost)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
box:
  contribution_amount: 250
  num_payments: 6
  pay_time_seconds: 60
  withdraw_fee_percent: 5
auth:
  jwt_secret: file-secret
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Fatalf("expected port 9000, got %s", cfg.Server.Port)
	}
	if cfg.Box.ContributionAmount != 250 || cfg.Box.NumPayments != 6 || cfg.Box.WithdrawFeePercent != 5 {
		t.Fatalf("unexpected box config: %+v", cfg.Box)
	}
	if cfg.Auth.JWTSecret != "file-secret" {
		t.Fatalf("expected jwt secret from file, got %q", cfg.Auth.JWTSecret)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: file-secret
`)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("PORT", "7777")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("expected env override, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Server.Port != "7777" {
		t.Fatalf("expected port 7777, got %s", cfg.Server.Port)
	}
	if cfg.Telegram.ChatID != 12345 {
		t.Fatalf("expected chat ID 12345, got %d", cfg.Telegram.ChatID)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		cfg.Auth.JWTSecret = "secret"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg := valid()
	cfg.Auth.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing jwt secret")
	}

	cfg = valid()
	cfg.Box.WithdrawFeePercent = 150
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for fee percent out of range")
	}

	// The gateway pair must be configured together.
	cfg = valid()
	cfg.AssetGateway.BaseURL = "http://localhost:9001"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for asset gateway without yield pool")
	}
}
