package storage

import (
	"context"
	"fmt"

	"github.com/xaenox/trendpulse/internal/models"
)

const reportColumns = `id, scenario_id, report_type, file_path, file_size, generated_at`

func scanReport(row rowScanner) (*models.Report, error) {
	r := &models.Report{}
	var reportType string
	if err := row.Scan(&r.ID, &r.ScenarioID, &reportType, &r.FilePath, &r.FileSize, &r.GeneratedAt); err != nil {
		return nil, err
	}
	r.ReportType = models.ReportType(reportType)
	return r, nil
}

func (s *SQLStorage) CreateReport(ctx context.Context, r *models.Report) error {
	now := s.now()
	query := `
		INSERT INTO reports (scenario_id, report_type, file_path, file_size, generated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`

	err := s.queryRow(ctx, query, r.ScenarioID, string(r.ReportType), r.FilePath, r.FileSize, now).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("error creating report: %w", err)
	}

	r.GeneratedAt = now
	return nil
}

func (s *SQLStorage) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = ?`

	r, err := scanReport(s.queryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

func (s *SQLStorage) ListReportsByScenario(ctx context.Context, scenarioID int64) ([]*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE scenario_id = ? ORDER BY id`

	rows, err := s.query(ctx, query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("error querying reports: %w", err)
	}
	defer rows.Close()

	reports := []*models.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
