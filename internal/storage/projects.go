package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaenox/trendpulse/internal/models"
)

const projectColumns = `id, user_id, land_plot_id, name, description, project_type, location, budget, area, status,
	created_at, updated_at`

func scanProject(row rowScanner) (*models.Project, error) {
	p := &models.Project{}
	var projectType, status string
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.LandPlotID,
		&p.Name,
		&p.Description,
		&projectType,
		&p.Location,
		&p.Budget,
		&p.Area,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ProjectType = models.ProjectType(projectType)
	p.Status = models.ProjectStatus(status)
	return p, nil
}

func (s *SQLStorage) CreateProject(ctx context.Context, p *models.Project) error {
	now := s.now()
	if p.Status == "" {
		p.Status = models.StatusDraft
	}

	query := `
		INSERT INTO projects (user_id, land_plot_id, name, description, project_type, location, budget, area, status,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := s.queryRow(ctx, query,
		p.UserID,
		nullable(p.LandPlotID),
		p.Name,
		nullable(p.Description),
		string(p.ProjectType),
		nullable(p.Location),
		nullable(p.Budget),
		nullable(p.Area),
		string(p.Status),
		now,
		now,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}

	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (s *SQLStorage) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	p, err := scanProject(s.queryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *SQLStorage) SetProjectLandPlot(ctx context.Context, projectID, landPlotID int64) error {
	query := `UPDATE projects SET land_plot_id = ?, updated_at = ? WHERE id = ?`

	res, err := s.exec(ctx, query, landPlotID, s.now(), projectID)
	if err != nil {
		return fmt.Errorf("error linking land plot to project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error linking land plot to project: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStorage) ListProjects(ctx context.Context, filter ProjectFilter) ([]*models.Project, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *filter.UserID)
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, int64(filter.Limit), int64(filter.Skip))

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying projects: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
