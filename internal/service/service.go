// Package service coordinates storage, scenario generation and report rendering.
// It owns transaction boundaries and translates storage errors into apperr kinds.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/apperr"
	"github.com/xaenox/trendpulse/internal/logger"
	"github.com/xaenox/trendpulse/internal/report"
	"github.com/xaenox/trendpulse/internal/scenario"
	"github.com/xaenox/trendpulse/internal/storage"
)

const (
	DefaultLimit = 100
	// activeUserWindow is how recently a user must have been seen to count as active.
	activeUserWindow = 30 * 24 * time.Hour
)

type Service struct {
	store     storage.Storage
	generator *scenario.Generator
	renderer  *report.Renderer
	artifacts report.Store
	logger    *zap.Logger
	now       func() time.Time
}

func New(store storage.Storage, generator *scenario.Generator, renderer *report.Renderer, artifacts report.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if generator == nil {
		generator = scenario.NewGenerator(nil)
	}
	return &Service{
		store:     store,
		generator: generator,
		renderer:  renderer,
		artifacts: artifacts,
		logger:    logger,
		now:       time.Now,
	}
}

// Ping reports whether the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Page is a skip/limit window over an id-ordered listing.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) validate() error {
	if p.Skip < 0 {
		return apperr.Validation("skip must be non-negative")
	}
	if p.Limit < 1 {
		return apperr.Validation("limit must be positive")
	}
	return nil
}

// translate maps storage sentinels onto apperr kinds and wraps everything else.
func translate(err error, entity string, key any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound(entity, key)
	case errors.As(err, new(*apperr.Error)):
		return err
	default:
		return apperr.Wrap(err, "failed to access "+entity)
	}
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	if l := logger.FromContext(ctx); l.Core().Enabled(zap.ErrorLevel) {
		return l
	}
	return s.logger
}
