package storage

import (
	"context"

	"go.uber.org/zap"
)

// NewMemoryStorage returns a private in-memory SQLite database. Data is lost
// when the storage is closed.
func NewMemoryStorage(ctx context.Context, logger *zap.Logger) (*SQLStorage, error) {
	storage, err := openSQLite(ctx, "file::memory:?_pragma=foreign_keys(1)", logger)
	if err != nil {
		return nil, err
	}
	storage.logger.Info("Using in-memory storage")
	return storage, nil
}
