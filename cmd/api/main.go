package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/api"
	"github.com/xaenox/trendpulse/internal/logger"
	"github.com/xaenox/trendpulse/internal/report"
	"github.com/xaenox/trendpulse/internal/scenario"
	"github.com/xaenox/trendpulse/internal/service"
	"github.com/xaenox/trendpulse/internal/storage"
	"github.com/xaenox/trendpulse/pkg/config"
)

func main() {
	envErr := godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		zap.NewExample().Fatal("Failed to load config", zap.Error(err), zap.String("path", configPath))
	}

	log, err := logger.New("api", cfg.Log.Level, cfg.Log.Environment)
	if err != nil {
		zap.NewExample().Fatal("Failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	store, err := storage.Open(ctx, storage.DatabaseConfig{
		Driver:      cfg.Database.Driver,
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		User:        cfg.Database.User,
		Password:    cfg.Database.Password,
		DBName:      cfg.Database.DBName,
		SSLMode:     cfg.Database.SSLMode,
		Path:        cfg.Database.Path,
		UseInMemory: cfg.Database.UseInMemory,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()
	log.Info("Storage ready",
		zap.String("dialect", store.Dialect().String()),
		zap.Bool("in_memory", cfg.Database.UseInMemory))

	artifacts, err := newArtifactStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize report store", zap.Error(err), zap.String("store", cfg.Reports.Store))
	}

	renderer, err := report.NewRenderer(artifacts, cfg.Reports.FontPath, log)
	if err != nil {
		log.Fatal("Failed to initialize report renderer", zap.Error(err))
	}

	svc := service.New(store, scenario.NewGenerator(nil), renderer, artifacts, log)

	if cfg.Log.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(svc, api.NewMetrics(), log)
	srv := api.NewServer(cfg.Server, handler.Router())

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()
	log.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server stopped")
}

func newArtifactStore(ctx context.Context, cfg *config.Config) (report.Store, error) {
	if cfg.Reports.Store == "s3" {
		return report.NewS3Store(ctx, report.S3Config{
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Endpoint:  cfg.S3.Endpoint,
			Prefix:    cfg.S3.Prefix,
		})
	}
	return report.NewLocalStore(cfg.Reports.Dir)
}
