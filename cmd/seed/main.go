package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/client"
	"github.com/xaenox/trendpulse/internal/logger"
	"github.com/xaenox/trendpulse/internal/seed"
	"github.com/xaenox/trendpulse/pkg/config"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		zap.NewExample().Fatal("Failed to load config", zap.Error(err), zap.String("path", configPath))
	}

	log, err := logger.New("seed", cfg.Log.Level, cfg.Log.Environment)
	if err != nil {
		zap.NewExample().Fatal("Failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The API address is shared with the bot.
	api := client.New(cfg.Telegram.APIURL, log)
	created, err := seed.Run(ctx, api, seed.Contractors, log)
	if err != nil {
		log.Fatal("Failed to seed contractors", zap.Error(err), zap.Int("created", created))
	}
	log.Info("Contractors seeded", zap.Int("created", created), zap.Int("total", len(seed.Contractors)))
}
