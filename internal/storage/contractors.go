package storage

import (
	"context"
	"fmt"

	"github.com/xaenox/trendpulse/internal/models"
)

const contractorColumns = `c.id, c.name, c.rating, c.experience_years, c.completed_projects, c.price_range,
	c.contact_phone, c.contact_email, c.website, c.location, c.portfolio, c.is_active, c.created_at`

func scanContractor(row rowScanner) (*models.Contractor, error) {
	c := &models.Contractor{}
	var priceRange string
	var experience, completed int64
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Rating,
		&experience,
		&completed,
		&priceRange,
		&c.ContactPhone,
		&c.ContactEmail,
		&c.Website,
		&c.Location,
		jsonColumn{&c.Portfolio},
		&c.IsActive,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ExperienceYears = int(experience)
	c.CompletedProjects = int(completed)
	c.PriceRange = models.PriceRange(priceRange)
	if c.Portfolio == nil {
		c.Portfolio = []string{}
	}
	return c, nil
}

// CreateContractor inserts the contractor row and its specializations. Callers
// wanting atomicity across both run it inside WithTx; it opens one itself otherwise.
func (s *SQLStorage) CreateContractor(ctx context.Context, c *models.Contractor) error {
	return s.WithTx(ctx, func(tx Storage) error {
		return tx.(*SQLStorage).createContractor(ctx, c)
	})
}

func (s *SQLStorage) createContractor(ctx context.Context, c *models.Contractor) error {
	now := s.now()
	if c.Portfolio == nil {
		c.Portfolio = []string{}
	}
	if c.PriceRange == "" {
		c.PriceRange = models.PriceMedium
	}
	portfolio, err := marshalJSON(c.Portfolio)
	if err != nil {
		return fmt.Errorf("error encoding portfolio: %w", err)
	}

	query := `
		INSERT INTO contractors (name, rating, experience_years, completed_projects, price_range,
			contact_phone, contact_email, website, location, portfolio, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err = s.queryRow(ctx, query,
		c.Name,
		c.Rating,
		int64(c.ExperienceYears),
		int64(c.CompletedProjects),
		string(c.PriceRange),
		nullable(c.ContactPhone),
		nullable(c.ContactEmail),
		nullable(c.Website),
		nullable(c.Location),
		portfolio,
		c.IsActive,
		now,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("error creating contractor: %w", err)
	}

	seen := make(map[models.ProjectType]bool, len(c.Specializations))
	specs := make([]models.ProjectType, 0, len(c.Specializations))
	for _, pt := range c.Specializations {
		if seen[pt] {
			continue
		}
		seen[pt] = true
		specs = append(specs, pt)

		_, err := s.exec(ctx,
			`INSERT INTO contractor_specializations (contractor_id, project_type) VALUES (?, ?)`,
			c.ID, string(pt))
		if err != nil {
			return fmt.Errorf("error saving specialization %s: %w", pt, err)
		}
	}

	c.Specializations = specs
	c.CreatedAt = now
	return nil
}

func (s *SQLStorage) GetContractor(ctx context.Context, id int64) (*models.Contractor, error) {
	query := `SELECT ` + contractorColumns + ` FROM contractors c WHERE c.id = ?`

	c, err := scanContractor(s.queryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.attachSpecializations(ctx, []*models.Contractor{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *SQLStorage) ListContractors(ctx context.Context, skip, limit int) ([]*models.Contractor, error) {
	query := `SELECT ` + contractorColumns + ` FROM contractors c WHERE c.is_active = ? ORDER BY c.id LIMIT ? OFFSET ?`
	return s.listContractors(ctx, query, true, int64(limit), int64(skip))
}

func (s *SQLStorage) ListContractorsBySpecialization(ctx context.Context, types []models.ProjectType, limit int) ([]*models.Contractor, error) {
	if len(types) == 0 {
		return []*models.Contractor{}, nil
	}

	args := []any{true}
	for _, t := range types {
		args = append(args, string(t))
	}
	args = append(args, int64(limit))

	query := `SELECT ` + contractorColumns + ` FROM contractors c
		WHERE c.is_active = ? AND c.id IN (
			SELECT cs.contractor_id FROM contractor_specializations cs WHERE cs.project_type IN (` + placeholders(len(types)) + `)
		)
		ORDER BY c.rating DESC, c.id
		LIMIT ?`
	return s.listContractors(ctx, query, args...)
}

func (s *SQLStorage) listContractors(ctx context.Context, query string, args ...any) ([]*models.Contractor, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying contractors: %w", err)
	}

	contractors := []*models.Contractor{}
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning contractor: %w", err)
		}
		contractors = append(contractors, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Release the connection before the follow-up query; sqlite runs on one.
	rows.Close()

	if err := s.attachSpecializations(ctx, contractors); err != nil {
		return nil, err
	}
	return contractors, nil
}

func (s *SQLStorage) attachSpecializations(ctx context.Context, contractors []*models.Contractor) error {
	if len(contractors) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Contractor, len(contractors))
	args := make([]any, 0, len(contractors))
	for _, c := range contractors {
		c.Specializations = []models.ProjectType{}
		byID[c.ID] = c
		args = append(args, c.ID)
	}

	query := `SELECT contractor_id, project_type FROM contractor_specializations
		WHERE contractor_id IN (` + placeholders(len(args)) + `)
		ORDER BY contractor_id, project_type`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error querying specializations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var pt string
		if err := rows.Scan(&id, &pt); err != nil {
			return fmt.Errorf("error scanning specialization: %w", err)
		}
		if c, ok := byID[id]; ok {
			c.Specializations = append(c.Specializations, models.ProjectType(pt))
		}
	}
	return rows.Err()
}
