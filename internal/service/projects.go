package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/models"
	"github.com/xaenox/trendpulse/internal/storage"
)

// CreateProject stores p for an existing user. A referenced land plot must exist too.
func (s *Service) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		if _, err := tx.GetUser(ctx, p.UserID); err != nil {
			return translate(err, "user", p.UserID)
		}
		if p.LandPlotID != nil {
			if _, err := tx.GetLandPlot(ctx, *p.LandPlotID); err != nil {
				return translate(err, "land plot", *p.LandPlotID)
			}
		}
		return translate(tx.CreateProject(ctx, p), "project", p.Name)
	})
	if err != nil {
		s.log(ctx).Warn("Failed to create project", zap.Error(err), zap.Int64("user_id", p.UserID))
		return nil, err
	}

	s.log(ctx).Info("Project created", zap.Int64("project_id", p.ID), zap.String("project_type", string(p.ProjectType)))
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, translate(err, "project", id)
	}
	return p, nil
}

// ListProjects pages through projects by ascending id, optionally for one user.
func (s *Service) ListProjects(ctx context.Context, page Page, userID *int64) ([]*models.Project, error) {
	if err := page.validate(); err != nil {
		return nil, err
	}
	projects, err := s.store.ListProjects(ctx, storage.ProjectFilter{
		UserID: userID,
		Skip:   page.Skip,
		Limit:  page.Limit,
	})
	if err != nil {
		return nil, translate(err, "projects", "list")
	}
	return projects, nil
}

func (s *Service) CreateLandPlot(ctx context.Context, p *models.LandPlot) (*models.LandPlot, error) {
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		if _, err := tx.GetUser(ctx, p.UserID); err != nil {
			return translate(err, "user", p.UserID)
		}
		p.Infrastructure = dedupInfrastructure(p.Infrastructure)
		return translate(tx.CreateLandPlot(ctx, p), "land plot", p.UserID)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetLandPlot(ctx context.Context, id int64) (*models.LandPlot, error) {
	p, err := s.store.GetLandPlot(ctx, id)
	if err != nil {
		return nil, translate(err, "land plot", id)
	}
	return p, nil
}

func dedupInfrastructure(in []models.InfrastructureType) []models.InfrastructureType {
	out := make([]models.InfrastructureType, 0, len(in))
	seen := make(map[models.InfrastructureType]bool, len(in))
	for _, i := range in {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out
}
