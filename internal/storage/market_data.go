package storage

import (
	"context"
	"fmt"

	"github.com/xaenox/trendpulse/internal/models"
)

const marketDataColumns = `id, region, project_type, construction_cost_per_sqm, rental_rate_per_sqm, vacancy_rate,
	market_demand_score, updated_at`

func scanMarketData(row rowScanner) (*models.MarketData, error) {
	m := &models.MarketData{}
	var projectType string
	err := row.Scan(
		&m.ID,
		&m.Region,
		&projectType,
		&m.ConstructionCostPerSqm,
		&m.RentalRatePerSqm,
		&m.VacancyRate,
		&m.MarketDemandScore,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.ProjectType = models.ProjectType(projectType)
	return m, nil
}

func (s *SQLStorage) UpsertMarketData(ctx context.Context, m *models.MarketData) error {
	now := s.now()
	query := `
		INSERT INTO market_data (region, project_type, construction_cost_per_sqm, rental_rate_per_sqm, vacancy_rate,
			market_demand_score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (region, project_type) DO UPDATE SET
			construction_cost_per_sqm = excluded.construction_cost_per_sqm,
			rental_rate_per_sqm = excluded.rental_rate_per_sqm,
			vacancy_rate = excluded.vacancy_rate,
			market_demand_score = excluded.market_demand_score,
			updated_at = excluded.updated_at
		RETURNING id`

	err := s.queryRow(ctx, query,
		m.Region,
		string(m.ProjectType),
		m.ConstructionCostPerSqm,
		m.RentalRatePerSqm,
		m.VacancyRate,
		m.MarketDemandScore,
		now,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("error upserting market data: %w", err)
	}

	m.UpdatedAt = now
	return nil
}

func (s *SQLStorage) GetMarketData(ctx context.Context, region string, projectType models.ProjectType) (*models.MarketData, error) {
	query := `SELECT ` + marketDataColumns + ` FROM market_data WHERE region = ? AND project_type = ?`

	m, err := scanMarketData(s.queryRow(ctx, query, region, string(projectType)))
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

// ListMarketData returns all rows, or the rows of one region when region is set.
func (s *SQLStorage) ListMarketData(ctx context.Context, region string) ([]*models.MarketData, error) {
	query := `SELECT ` + marketDataColumns + ` FROM market_data`
	var args []any
	if region != "" {
		query += ` WHERE region = ?`
		args = append(args, region)
	}
	query += ` ORDER BY region, project_type`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying market data: %w", err)
	}
	defer rows.Close()

	items := []*models.MarketData{}
	for rows.Next() {
		m, err := scanMarketData(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning market data: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
