package service

import (
	"context"
	"errors"

	"github.com/xaenox/trendpulse/internal/models"
	"github.com/xaenox/trendpulse/internal/storage"
)

func (s *Service) UpsertMarketData(ctx context.Context, m *models.MarketData) (*models.MarketData, error) {
	if err := s.store.UpsertMarketData(ctx, m); err != nil {
		return nil, translate(err, "market data", m.Region)
	}
	return m, nil
}

// ListMarketData filters by region and, when given, project type. Empty
// region lists every region.
func (s *Service) ListMarketData(ctx context.Context, region string, projectType *models.ProjectType) ([]*models.MarketData, error) {
	if projectType != nil && region != "" {
		m, err := s.store.GetMarketData(ctx, region, *projectType)
		if errors.Is(err, storage.ErrNotFound) {
			return []*models.MarketData{}, nil
		}
		if err != nil {
			return nil, translate(err, "market data", region)
		}
		return []*models.MarketData{m}, nil
	}

	all, err := s.store.ListMarketData(ctx, region)
	if err != nil {
		return nil, translate(err, "market data", region)
	}
	if projectType == nil {
		return all, nil
	}

	filtered := make([]*models.MarketData, 0, len(all))
	for _, m := range all {
		if m.ProjectType == *projectType {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}
