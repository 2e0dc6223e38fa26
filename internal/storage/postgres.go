package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed schema_postgres.sql schema_sqlite.sql
var migrations embed.FS

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Path        string
	UseInMemory bool
}

// Open picks the backend described by config.
func Open(ctx context.Context, config DatabaseConfig, logger *zap.Logger) (*SQLStorage, error) {
	if config.UseInMemory {
		return NewMemoryStorage(ctx, logger)
	}
	switch config.Driver {
	case "sqlite":
		return NewSQLiteStorage(ctx, config.Path, logger)
	case "postgres", "":
		return NewPostgresStorage(ctx, config, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

func NewPostgresStorage(ctx context.Context, config DatabaseConfig, logger *zap.Logger) (*SQLStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := newSQLStorage(db, DialectPostgres, logger)
	if err := storage.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	storage.logger.Info("Connected to PostgreSQL",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.String("dbname", config.DBName))
	return storage, nil
}
