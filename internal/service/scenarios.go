package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/apperr"
	"github.com/xaenox/trendpulse/internal/export"
	"github.com/xaenox/trendpulse/internal/models"
	"github.com/xaenox/trendpulse/internal/report"
	"github.com/xaenox/trendpulse/internal/scenario"
	"github.com/xaenox/trendpulse/internal/storage"
)

// GenerateScenarios draws count scenarios for the project and stores them as
// one batch. A project without a land plot gets a derived one, linked to the
// project in the same transaction so later batches reuse it.
func (s *Service) GenerateScenarios(ctx context.Context, projectID int64, count int) ([]*models.Scenario, error) {
	if err := scenario.ValidateCount(count); err != nil {
		return nil, err
	}

	var scenarios []*models.Scenario
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		project, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return translate(err, "project", projectID)
		}

		var created error
		scenarios, created = s.generate(ctx, tx, project, count)
		return created
	})
	if err != nil {
		s.log(ctx).Warn("Failed to generate scenarios", zap.Error(err), zap.Int64("project_id", projectID))
		return nil, err
	}

	s.log(ctx).Info("Scenarios generated", zap.Int64("project_id", projectID), zap.Int("count", len(scenarios)))
	return scenarios, nil
}

// generate runs inside tx: resolves the plot, matches contractors, draws and
// persists the batch.
func (s *Service) generate(ctx context.Context, tx storage.Storage, project *models.Project, count int) ([]*models.Scenario, error) {
	plot, ids, err := s.scenarioContext(ctx, tx, project)
	if err != nil {
		return nil, err
	}

	scenarios, err := s.generator.Generate(project, plot, ids, count)
	if err != nil {
		return nil, err
	}
	for _, sc := range scenarios {
		if err := tx.CreateScenario(ctx, sc); err != nil {
			return nil, translate(err, "scenario", sc.Name)
		}
	}
	return scenarios, nil
}

// scenarioContext returns the project's land plot and the contractors matched
// to its type. A project without a plot gets a derived one, linked to the
// project so later scenarios reuse it.
func (s *Service) scenarioContext(ctx context.Context, tx storage.Storage, project *models.Project) (*models.LandPlot, []int64, error) {
	var plot *models.LandPlot
	if project.LandPlotID != nil {
		p, err := tx.GetLandPlot(ctx, *project.LandPlotID)
		if err != nil {
			return nil, nil, translate(err, "land plot", *project.LandPlotID)
		}
		plot = p
	} else {
		plot = scenario.DeriveLandPlot(project)
		if err := tx.CreateLandPlot(ctx, plot); err != nil {
			return nil, nil, translate(err, "land plot", project.ID)
		}
		if err := tx.SetProjectLandPlot(ctx, project.ID, plot.ID); err != nil {
			return nil, nil, translate(err, "project", project.ID)
		}
		project.LandPlotID = &plot.ID
	}

	contractors, err := tx.ListContractorsBySpecialization(ctx, []models.ProjectType{project.ProjectType}, scenario.MaxContractors)
	if err != nil {
		return nil, nil, translate(err, "contractors", project.ProjectType)
	}
	ids := make([]int64, 0, len(contractors))
	for _, c := range contractors {
		ids = append(ids, c.ID)
	}
	return plot, ids, nil
}

// CreateScenario stores a hand-entered scenario for the project.
func (s *Service) CreateScenario(ctx context.Context, projectID int64, m scenario.Manual) (*models.Scenario, error) {
	var created *models.Scenario
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		project, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return translate(err, "project", projectID)
		}
		plot, ids, err := s.scenarioContext(ctx, tx, project)
		if err != nil {
			return err
		}

		sc, err := scenario.Build(project, plot, ids, m)
		if err != nil {
			return err
		}
		if err := tx.CreateScenario(ctx, sc); err != nil {
			return translate(err, "scenario", sc.Name)
		}
		created = sc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("Scenario created", zap.Int64("project_id", projectID), zap.Int64("scenario_id", created.ID))
	return created, nil
}

// GenerateRequest is a chat form submission: who, which plot and how much to invest.
type GenerateRequest struct {
	User             models.User
	LandPlot         models.LandPlot
	InvestmentBudget *float64
	Count            int
}

// GenerateFromLandPlot registers the submitted plot for the user (creating the
// user on first contact), opens a project on it and generates scenarios, all
// in one transaction.
func (s *Service) GenerateFromLandPlot(ctx context.Context, req GenerateRequest) ([]*models.Scenario, error) {
	count := req.Count
	if count == 0 {
		count = scenario.DefaultCount
	}
	if err := scenario.ValidateCount(count); err != nil {
		return nil, err
	}
	if req.LandPlot.Area <= 0 {
		return nil, apperr.Validation("land plot area must be positive")
	}

	var scenarios []*models.Scenario
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		user, err := tx.GetOrCreateUser(ctx, &req.User)
		if err != nil {
			return translate(err, "user", req.User.TelegramID)
		}

		plot := req.LandPlot
		plot.UserID = user.ID
		plot.Infrastructure = dedupInfrastructure(plot.Infrastructure)
		if err := tx.CreateLandPlot(ctx, &plot); err != nil {
			return translate(err, "land plot", user.ID)
		}

		area := plot.Area * 10000
		project := &models.Project{
			UserID:      user.ID,
			LandPlotID:  &plot.ID,
			Name:        fmt.Sprintf("Участок %s га", report.FormatHectares(plot.Area)),
			ProjectType: models.ProjectTypeForZone(plot.ZoneType),
			Location:    plot.Location,
			Budget:      req.InvestmentBudget,
			Area:        &area,
		}
		if err := tx.CreateProject(ctx, project); err != nil {
			return translate(err, "project", project.Name)
		}

		var created error
		scenarios, created = s.generate(ctx, tx, project, count)
		return created
	})
	if err != nil {
		s.log(ctx).Warn("Failed to generate scenarios from land plot", zap.Error(err), zap.Int64("telegram_id", req.User.TelegramID))
		return nil, err
	}

	s.log(ctx).Info("Scenarios generated from land plot",
		zap.Int64("telegram_id", req.User.TelegramID),
		zap.Int("count", len(scenarios)))
	return scenarios, nil
}

func (s *Service) GetScenario(ctx context.Context, id int64) (*models.Scenario, error) {
	sc, err := s.store.GetScenario(ctx, id)
	if err != nil {
		return nil, translate(err, "scenario", id)
	}
	return sc, nil
}

func (s *Service) ListProjectScenarios(ctx context.Context, projectID int64) ([]*models.Scenario, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	scenarios, err := s.store.ListScenariosByProject(ctx, projectID)
	if err != nil {
		return nil, translate(err, "scenarios", projectID)
	}
	return scenarios, nil
}

// ExportUserScenarios writes the user's scenarios to w as an xlsx workbook.
func (s *Service) ExportUserScenarios(ctx context.Context, telegramID int64, w io.Writer) error {
	scenarios, err := s.ListUserScenarios(ctx, telegramID)
	if err != nil {
		return err
	}
	if err := export.WriteScenarios(w, scenarios); err != nil {
		return apperr.Wrap(err, "failed to export scenarios")
	}
	return nil
}
