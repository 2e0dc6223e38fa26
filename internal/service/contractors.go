package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/models"
)

func (s *Service) CreateContractor(ctx context.Context, c *models.Contractor) (*models.Contractor, error) {
	if err := s.store.CreateContractor(ctx, c); err != nil {
		s.log(ctx).Error("Failed to create contractor", zap.Error(err), zap.String("name", c.Name))
		return nil, translate(err, "contractor", c.Name)
	}
	return c, nil
}

func (s *Service) GetContractor(ctx context.Context, id int64) (*models.Contractor, error) {
	c, err := s.store.GetContractor(ctx, id)
	if err != nil {
		return nil, translate(err, "contractor", id)
	}
	return c, nil
}

// ListContractors pages through active contractors by id. With a
// specialization the listing holds only matching contractors, best rated first.
func (s *Service) ListContractors(ctx context.Context, page Page, specialization *models.ProjectType) ([]*models.Contractor, error) {
	if err := page.validate(); err != nil {
		return nil, err
	}

	if specialization == nil {
		contractors, err := s.store.ListContractors(ctx, page.Skip, page.Limit)
		if err != nil {
			return nil, translate(err, "contractors", "list")
		}
		return contractors, nil
	}

	contractors, err := s.store.ListContractorsBySpecialization(ctx, []models.ProjectType{*specialization}, page.Skip+page.Limit)
	if err != nil {
		return nil, translate(err, "contractors", *specialization)
	}
	if page.Skip >= len(contractors) {
		return []*models.Contractor{}, nil
	}
	return contractors[page.Skip:], nil
}
