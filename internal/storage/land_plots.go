package storage

import (
	"context"
	"fmt"

	"github.com/xaenox/trendpulse/internal/models"
)

const landPlotColumns = `id, user_id, area, zone_type, infrastructure, electricity_power, gas_pressure, water_flow,
	road_access, internet_available, location, created_at`

func scanLandPlot(row rowScanner) (*models.LandPlot, error) {
	p := &models.LandPlot{}
	var zone string
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Area,
		&zone,
		jsonColumn{&p.Infrastructure},
		&p.ElectricityPower,
		&p.GasPressure,
		&p.WaterFlow,
		&p.RoadAccess,
		&p.InternetAvailable,
		&p.Location,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ZoneType = models.ZoneType(zone)
	if p.Infrastructure == nil {
		p.Infrastructure = []models.InfrastructureType{}
	}
	return p, nil
}

func (s *SQLStorage) CreateLandPlot(ctx context.Context, p *models.LandPlot) error {
	now := s.now()
	if p.Infrastructure == nil {
		p.Infrastructure = []models.InfrastructureType{}
	}
	infra, err := marshalJSON(p.Infrastructure)
	if err != nil {
		return fmt.Errorf("error encoding infrastructure: %w", err)
	}

	query := `
		INSERT INTO land_plots (user_id, area, zone_type, infrastructure, electricity_power, gas_pressure, water_flow,
			road_access, internet_available, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err = s.queryRow(ctx, query,
		p.UserID,
		p.Area,
		string(p.ZoneType),
		infra,
		nullable(p.ElectricityPower),
		nullable(p.GasPressure),
		nullable(p.WaterFlow),
		p.RoadAccess,
		p.InternetAvailable,
		nullable(p.Location),
		now,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("error creating land plot: %w", err)
	}

	p.CreatedAt = now
	return nil
}

func (s *SQLStorage) GetLandPlot(ctx context.Context, id int64) (*models.LandPlot, error) {
	query := `SELECT ` + landPlotColumns + ` FROM land_plots WHERE id = ?`

	p, err := scanLandPlot(s.queryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *SQLStorage) ListLandPlotsByUser(ctx context.Context, userID int64) ([]*models.LandPlot, error) {
	query := `SELECT ` + landPlotColumns + ` FROM land_plots WHERE user_id = ? ORDER BY id`

	rows, err := s.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying land plots: %w", err)
	}
	defer rows.Close()

	plots := []*models.LandPlot{}
	for rows.Next() {
		p, err := scanLandPlot(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning land plot: %w", err)
		}
		plots = append(plots, p)
	}
	return plots, rows.Err()
}
