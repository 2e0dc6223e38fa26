package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/apperr"
	"github.com/xaenox/trendpulse/internal/models"
	"github.com/xaenox/trendpulse/internal/report"
	"github.com/xaenox/trendpulse/internal/storage"
)

// GenerateReport renders the scenario as reportType and records the artifact.
// Rendering runs synchronously in the caller.
func (s *Service) GenerateReport(ctx context.Context, scenarioID int64, reportType models.ReportType) (*models.Report, error) {
	if !reportType.Valid() {
		return nil, apperr.Validation("report_type must be one of %s, %s", models.ReportPreFeasibility, models.ReportInvestmentMemo)
	}
	if s.renderer == nil {
		return nil, apperr.Wrap(errors.New("no renderer configured"), "failed to render report")
	}

	in, err := s.reportInput(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	artifact, err := s.renderer.Render(ctx, reportType, *in)
	if err != nil {
		s.log(ctx).Error("Failed to render report",
			zap.Error(err),
			zap.Int64("scenario_id", scenarioID),
			zap.String("report_type", string(reportType)))
		return nil, err
	}

	r := &models.Report{
		ScenarioID: scenarioID,
		ReportType: reportType,
		FilePath:   artifact.Path,
		FileSize:   artifact.Size,
	}
	if err := s.store.CreateReport(ctx, r); err != nil {
		if s.artifacts != nil {
			if derr := s.artifacts.Delete(ctx, artifact.Path); derr != nil {
				s.log(ctx).Warn("Failed to remove orphaned report artifact",
					zap.Error(derr),
					zap.String("path", artifact.Path))
			}
		}
		return nil, translate(err, "report", scenarioID)
	}
	return r, nil
}

// GenerateProjectReport renders the summary of a project and all its
// scenarios. The artifact is not tied to a scenario, so no report row is kept.
func (s *Service) GenerateProjectReport(ctx context.Context, projectID int64) (*report.Artifact, error) {
	if s.renderer == nil {
		return nil, apperr.Wrap(errors.New("no renderer configured"), "failed to render report")
	}

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, translate(err, "project", projectID)
	}
	scenarios, err := s.store.ListScenariosByProject(ctx, projectID)
	if err != nil {
		return nil, translate(err, "scenarios", projectID)
	}

	in := report.ProjectInput{Project: project, Scenarios: scenarios}
	if project.LandPlotID != nil {
		plot, err := s.store.GetLandPlot(ctx, *project.LandPlotID)
		if err != nil {
			return nil, translate(err, "land plot", *project.LandPlotID)
		}
		in.Plot = plot
	}

	artifact, err := s.renderer.RenderProject(ctx, in)
	if err != nil {
		s.log(ctx).Error("Failed to render project report", zap.Error(err), zap.Int64("project_id", projectID))
		return nil, err
	}
	return artifact, nil
}

func (s *Service) reportInput(ctx context.Context, scenarioID int64) (*report.Input, error) {
	sc, err := s.store.GetScenario(ctx, scenarioID)
	if err != nil {
		return nil, translate(err, "scenario", scenarioID)
	}
	project, err := s.store.GetProject(ctx, sc.ProjectID)
	if err != nil {
		return nil, translate(err, "project", sc.ProjectID)
	}
	plot, err := s.store.GetLandPlot(ctx, sc.LandPlotID)
	if err != nil {
		return nil, translate(err, "land plot", sc.LandPlotID)
	}
	user, err := s.store.GetUser(ctx, sc.UserID)
	if err != nil {
		return nil, translate(err, "user", sc.UserID)
	}

	in := &report.Input{Scenario: sc, Project: project, Plot: plot, User: user}
	if project.Location != nil {
		market, err := s.store.GetMarketData(ctx, *project.Location, project.ProjectType)
		switch {
		case err == nil:
			in.Market = market
		case !errors.Is(err, storage.ErrNotFound):
			return nil, translate(err, "market data", *project.Location)
		}
	}
	return in, nil
}

func (s *Service) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	r, err := s.store.GetReport(ctx, id)
	if err != nil {
		return nil, translate(err, "report", id)
	}
	return r, nil
}

func (s *Service) ListScenarioReports(ctx context.Context, scenarioID int64) ([]*models.Report, error) {
	if _, err := s.GetScenario(ctx, scenarioID); err != nil {
		return nil, err
	}
	reports, err := s.store.ListReportsByScenario(ctx, scenarioID)
	if err != nil {
		return nil, translate(err, "reports", scenarioID)
	}
	return reports, nil
}

// OpenReport returns the report record and a reader over its artifact. The
// caller closes the reader.
func (s *Service) OpenReport(ctx context.Context, id int64) (*models.Report, io.ReadCloser, error) {
	r, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.artifacts == nil {
		return nil, nil, apperr.NotFound("report file", id)
	}
	rc, err := s.artifacts.Open(ctx, r.FilePath)
	if err != nil {
		s.log(ctx).Warn("Report file unavailable", zap.Error(err), zap.Int64("report_id", id))
		return nil, nil, apperr.NotFound("report file", id)
	}
	return r, rc, nil
}
