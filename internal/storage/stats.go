package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xaenox/trendpulse/internal/models"
)

func (s *SQLStorage) ScenarioStats(ctx context.Context) (*models.ScenarioStats, error) {
	stats := &models.ScenarioStats{ScenariosByZone: map[string]int{}}

	var total int64
	err := s.queryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(roi), 0), COALESCE(SUM(total_investment), 0) FROM scenarios`,
	).Scan(&total, &stats.AverageROI, &stats.TotalInvestment)
	if err != nil {
		return nil, fmt.Errorf("error aggregating scenarios: %w", err)
	}
	stats.TotalScenarios = int(total)

	var popular string
	err = s.queryRow(ctx, `
		SELECT project_type FROM scenarios
		GROUP BY project_type
		ORDER BY COUNT(*) DESC, project_type
		LIMIT 1`,
	).Scan(&popular)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("error finding popular project type: %w", err)
	}
	stats.MostPopularProjectType = popular

	rows, err := s.query(ctx, `
		SELECT lp.zone_type, COUNT(*) FROM scenarios sc
		JOIN land_plots lp ON lp.id = sc.land_plot_id
		GROUP BY lp.zone_type`)
	if err != nil {
		return nil, fmt.Errorf("error grouping scenarios by zone: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var zone string
		var n int64
		if err := rows.Scan(&zone, &n); err != nil {
			return nil, fmt.Errorf("error scanning zone count: %w", err)
		}
		stats.ScenariosByZone[zone] = int(n)
	}
	return stats, rows.Err()
}

func (s *SQLStorage) UserStats(ctx context.Context, activeSince time.Time) (*models.UserStats, error) {
	stats := &models.UserStats{UsersByRole: map[string]int{}}

	var total, active, scenarios int64
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM users WHERE updated_at >= ?`, activeSince.UTC()).Scan(&active); err != nil {
		return nil, fmt.Errorf("error counting active users: %w", err)
	}
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM scenarios`).Scan(&scenarios); err != nil {
		return nil, fmt.Errorf("error counting scenarios: %w", err)
	}

	stats.TotalUsers = int(total)
	stats.ActiveUsersLast30Days = int(active)
	if total > 0 {
		stats.AverageScenariosPerUser = float64(scenarios) / float64(total)
	}

	rows, err := s.query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("error grouping users by role: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var n int64
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("error scanning role count: %w", err)
		}
		stats.UsersByRole[role] = int(n)
	}
	return stats, rows.Err()
}

func (s *SQLStorage) CountActiveContractors(ctx context.Context) (int, error) {
	var n int64
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM contractors WHERE is_active = ?`, true).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting contractors: %w", err)
	}
	return int(n), nil
}

func (s *SQLStorage) CountReports(ctx context.Context) (int, error) {
	var n int64
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM reports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting reports: %w", err)
	}
	return int(n), nil
}
