package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/bot"
	"github.com/xaenox/trendpulse/internal/client"
	"github.com/xaenox/trendpulse/internal/logger"
	"github.com/xaenox/trendpulse/pkg/config"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		zap.NewExample().Fatal("Failed to load config", zap.Error(err), zap.String("path", configPath))
	}
	if err := cfg.ValidateBot(); err != nil {
		zap.NewExample().Fatal("Invalid bot config", zap.Error(err))
	}

	log, err := logger.New("bot", cfg.Log.Level, cfg.Log.Environment)
	if err != nil {
		zap.NewExample().Fatal("Failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	api := client.New(cfg.Telegram.APIURL, log)

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, cfg.Telegram.Debug, api, log)
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Bot started", zap.String("api_url", cfg.Telegram.APIURL))
	if err := b.Start(ctx); err != nil {
		log.Fatal("Bot error", zap.Error(err))
	}
	log.Info("Bot stopped")
}
