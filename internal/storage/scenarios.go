package storage

import (
	"context"
	"fmt"

	"github.com/xaenox/trendpulse/internal/models"
)

const scenarioColumns = `id, user_id, project_id, land_plot_id, name, project_type, description, roi, estimated_cost,
	construction_time, risk_level, market_demand, regulatory_complexity,
	total_investment, construction_cost, infrastructure_cost, operational_cost, revenue_per_year,
	roi_percentage, payback_period, npv, irr, recommendations, suitable_contractors, created_at`

func scanScenario(row rowScanner) (*models.Scenario, error) {
	s := &models.Scenario{}
	var projectType, risk, demand, regulatory string
	var constructionTime int64
	ue := &s.UnitEconomics
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.ProjectID,
		&s.LandPlotID,
		&s.Name,
		&projectType,
		&s.Description,
		&s.ROI,
		&s.EstimatedCost,
		&constructionTime,
		&risk,
		&demand,
		&regulatory,
		&ue.TotalInvestment,
		&ue.ConstructionCost,
		&ue.InfrastructureCost,
		&ue.OperationalCost,
		&ue.RevenuePerYear,
		&ue.ROIPercentage,
		&ue.PaybackPeriod,
		&ue.NPV,
		&ue.IRR,
		jsonColumn{&s.Recommendations},
		jsonColumn{&s.SuitableContractors},
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.ProjectType = models.ProjectType(projectType)
	s.ConstructionTime = int(constructionTime)
	s.RiskLevel = models.Level(risk)
	s.MarketDemand = models.Level(demand)
	s.RegulatoryComplexity = models.Level(regulatory)
	if s.Recommendations == nil {
		s.Recommendations = []string{}
	}
	if s.SuitableContractors == nil {
		s.SuitableContractors = []int64{}
	}
	return s, nil
}

func (s *SQLStorage) CreateScenario(ctx context.Context, sc *models.Scenario) error {
	now := s.now()
	if sc.Recommendations == nil {
		sc.Recommendations = []string{}
	}
	if sc.SuitableContractors == nil {
		sc.SuitableContractors = []int64{}
	}

	recommendations, err := marshalJSON(sc.Recommendations)
	if err != nil {
		return fmt.Errorf("error encoding recommendations: %w", err)
	}
	contractors, err := marshalJSON(sc.SuitableContractors)
	if err != nil {
		return fmt.Errorf("error encoding contractors: %w", err)
	}

	ue := sc.UnitEconomics
	query := `
		INSERT INTO scenarios (user_id, project_id, land_plot_id, name, project_type, description, roi, estimated_cost,
			construction_time, risk_level, market_demand, regulatory_complexity,
			total_investment, construction_cost, infrastructure_cost, operational_cost, revenue_per_year,
			roi_percentage, payback_period, npv, irr, recommendations, suitable_contractors, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err = s.queryRow(ctx, query,
		sc.UserID,
		sc.ProjectID,
		sc.LandPlotID,
		sc.Name,
		string(sc.ProjectType),
		sc.Description,
		sc.ROI,
		sc.EstimatedCost,
		int64(sc.ConstructionTime),
		string(sc.RiskLevel),
		string(sc.MarketDemand),
		string(sc.RegulatoryComplexity),
		ue.TotalInvestment,
		ue.ConstructionCost,
		ue.InfrastructureCost,
		ue.OperationalCost,
		ue.RevenuePerYear,
		ue.ROIPercentage,
		ue.PaybackPeriod,
		ue.NPV,
		ue.IRR,
		recommendations,
		contractors,
		now,
	).Scan(&sc.ID)
	if err != nil {
		return fmt.Errorf("error creating scenario: %w", err)
	}

	sc.CreatedAt = now
	return nil
}

func (s *SQLStorage) GetScenario(ctx context.Context, id int64) (*models.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE id = ?`

	sc, err := scanScenario(s.queryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return sc, nil
}

func (s *SQLStorage) ListScenariosByProject(ctx context.Context, projectID int64) ([]*models.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE project_id = ? ORDER BY id`
	return s.listScenarios(ctx, query, projectID)
}

func (s *SQLStorage) ListScenariosByUser(ctx context.Context, userID int64) ([]*models.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE user_id = ? ORDER BY id`
	return s.listScenarios(ctx, query, userID)
}

func (s *SQLStorage) listScenarios(ctx context.Context, query string, args ...any) ([]*models.Scenario, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying scenarios: %w", err)
	}
	defer rows.Close()

	scenarios := []*models.Scenario{}
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning scenario: %w", err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, rows.Err()
}
