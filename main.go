package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Bloinx/investco/internal/asset"
	"github.com/Bloinx/investco/internal/config"
	"github.com/Bloinx/investco/internal/domain"
	"github.com/Bloinx/investco/internal/handler"
	"github.com/Bloinx/investco/internal/notifier"
	"github.com/Bloinx/investco/internal/repository/sqlite"
	"github.com/Bloinx/investco/internal/service"
	"github.com/Bloinx/investco/internal/yield"
	"github.com/Bloinx/investco/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// run owns the whole process lifecycle so deferred cleanup (database,
// auditor) runs on every exit path, including server errors.
func run() error {
	_ = godotenv.Load()
	logging.Setup()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Default to secure cookies; disable only for local development.
	cookieSecure := os.Getenv("COOKIE_SECURE") != "false"

	db, err := sqlite.New(cfg.Database.SQLitePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	addr := service.Addresses{
		Asset:        cfg.Box.Asset,
		Custody:      cfg.Box.CustodyAddress,
		Operator:     cfg.Box.OperatorAddress,
		Pool:         cfg.Box.PoolAddress,
		ReferralCode: cfg.Box.ReferralCode,
	}

	var assets domain.AssetGateway
	var pool domain.YieldPool
	if cfg.AssetGateway.BaseURL != "" {
		assets = asset.NewClient(cfg.AssetGateway.BaseURL, cfg.AssetGateway.APIKey)
		pool = yield.NewClient(cfg.YieldPool.BaseURL, cfg.YieldPool.APIKey)
	} else {
		slog.Warn("no asset gateway configured, using in-memory implementations")
		bank := asset.NewBank()
		assets = bank
		pool = yield.NewPool(addr.Custody)
	}

	var events domain.Notifier
	if cfg.Telegram.BotToken != "" {
		tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return fmt.Errorf("init telegram notifier: %w", err)
		}
		events = tn
	} else {
		events = notifier.NewNoop()
	}

	authService := service.NewAuthService(db.Users(), cfg.Auth.JWTSecret, cfg.Auth.BcryptCost)
	boxService := service.NewBoxService(db.Boxes(), db.Savers(), db, assets, pool, events, addr)

	boxCfg := domain.BoxConfig{
		ContributionAmount: cfg.Box.ContributionAmount,
		NumPayments:        cfg.Box.NumPayments,
		PayTime:            time.Duration(cfg.Box.PayTimeSeconds) * time.Second,
		WithdrawFeePercent: cfg.Box.WithdrawFeePercent,
	}
	if err := boxService.Init(context.Background(), boxCfg); err != nil {
		return fmt.Errorf("init savings box: %w", err)
	}

	auditor := service.NewAuditor(boxService)
	if err := auditor.Register(cfg.Audit.Cron); err != nil {
		return fmt.Errorf("register audit task: %w", err)
	}
	auditor.Start()
	defer auditor.Stop()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, boxService, cookieSecure)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.SecurityHeaders(handler.Metrics(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
