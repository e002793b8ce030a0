package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret  string `yaml:"jwt_secret"`
		BcryptCost int    `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
	Box struct {
		ContributionAmount int64  `yaml:"contribution_amount"`
		NumPayments        int    `yaml:"num_payments"`
		PayTimeSeconds     int64  `yaml:"pay_time_seconds"`
		WithdrawFeePercent int64  `yaml:"withdraw_fee_percent"`
		Asset              string `yaml:"asset"`
		CustodyAddress     string `yaml:"custody_address"`
		OperatorAddress    string `yaml:"operator_address"`
		PoolAddress        string `yaml:"pool_address"`
		ReferralCode       uint16 `yaml:"referral_code"`
	} `yaml:"box"`
	// AssetGateway and YieldPool point at the external services holding the
	// funds. An empty base URL selects the in-memory implementation, which
	// is only suitable for local development.
	AssetGateway struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"asset_gateway"`
	YieldPool struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"yield_pool"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Audit struct {
		Cron string `yaml:"cron"`
	} `yaml:"audit"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("ASSET_GATEWAY_URL"); v != "" {
		cfg.AssetGateway.BaseURL = v
	}
	if v := os.Getenv("ASSET_GATEWAY_API_KEY"); v != "" {
		cfg.AssetGateway.APIKey = v
	}
	if v := os.Getenv("YIELD_POOL_URL"); v != "" {
		cfg.YieldPool.BaseURL = v
	}
	if v := os.Getenv("YIELD_POOL_API_KEY"); v != "" {
		cfg.YieldPool.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("AUDIT_CRON"); v != "" {
		cfg.Audit.Cron = v
	}

	// Defaults
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/investco.db"
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 12
	}
	if cfg.Box.ContributionAmount == 0 {
		cfg.Box.ContributionAmount = 100
	}
	if cfg.Box.NumPayments == 0 {
		cfg.Box.NumPayments = 12
	}
	if cfg.Box.PayTimeSeconds == 0 {
		cfg.Box.PayTimeSeconds = 7 * 24 * 60 * 60
	}
	if cfg.Box.WithdrawFeePercent == 0 {
		cfg.Box.WithdrawFeePercent = 20
	}
	if cfg.Box.Asset == "" {
		cfg.Box.Asset = "USDC"
	}
	if cfg.Box.CustodyAddress == "" {
		cfg.Box.CustodyAddress = "box-custody"
	}
	if cfg.Box.OperatorAddress == "" {
		cfg.Box.OperatorAddress = "box-operator"
	}
	if cfg.Box.PoolAddress == "" {
		cfg.Box.PoolAddress = "yield-pool"
	}
	if cfg.Audit.Cron == "" {
		cfg.Audit.Cron = "0 0 * * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Box.ContributionAmount <= 0 {
		return fmt.Errorf("box.contribution_amount must be positive")
	}
	if c.Box.NumPayments <= 0 {
		return fmt.Errorf("box.num_payments must be positive")
	}
	if c.Box.PayTimeSeconds <= 0 {
		return fmt.Errorf("box.pay_time_seconds must be positive")
	}
	if c.Box.WithdrawFeePercent < 0 || c.Box.WithdrawFeePercent > 100 {
		return fmt.Errorf("box.withdraw_fee_percent must be between 0 and 100")
	}
	if (c.AssetGateway.BaseURL == "") != (c.YieldPool.BaseURL == "") {
		return fmt.Errorf("asset_gateway.base_url and yield_pool.base_url must be set together")
	}
	return nil
}
