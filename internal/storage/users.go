package storage

import (
	"context"
	"fmt"

	"github.com/xaenox/trendpulse/internal/models"
)

const userColumns = `id, telegram_id, username, first_name, last_name, phone, email, role, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var role string
	err := row.Scan(
		&u.ID,
		&u.TelegramID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.Email,
		&role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return u, nil
}

func (s *SQLStorage) CreateUser(ctx context.Context, u *models.User) error {
	now := s.now()
	if u.Role == "" {
		u.Role = models.RoleInvestor
	}

	query := `
		INSERT INTO users (telegram_id, username, first_name, last_name, phone, email, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := s.queryRow(ctx, query,
		u.TelegramID,
		nullable(u.Username),
		nullable(u.FirstName),
		nullable(u.LastName),
		nullable(u.Phone),
		nullable(u.Email),
		string(u.Role),
		u.IsActive,
		now,
		now,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (s *SQLStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	u, err := scanUser(s.queryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *SQLStorage) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = ?`

	u, err := scanUser(s.queryRow(ctx, query, telegramID))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *SQLStorage) GetOrCreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	now := s.now()
	role := u.Role
	if role == "" {
		role = models.RoleInvestor
	}

	query := `
		INSERT INTO users (telegram_id, username, first_name, last_name, phone, email, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET updated_at = excluded.updated_at
		RETURNING ` + userColumns

	user, err := scanUser(s.queryRow(ctx, query,
		u.TelegramID,
		nullable(u.Username),
		nullable(u.FirstName),
		nullable(u.LastName),
		nullable(u.Phone),
		nullable(u.Email),
		string(role),
		true,
		now,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("error upserting user: %w", err)
	}
	return user, nil
}

func (s *SQLStorage) UpdateUser(ctx context.Context, u *models.User) error {
	now := s.now()
	query := `
		UPDATE users
		SET username = ?, first_name = ?, last_name = ?, phone = ?, email = ?, role = ?, is_active = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.exec(ctx, query,
		nullable(u.Username),
		nullable(u.FirstName),
		nullable(u.LastName),
		nullable(u.Phone),
		nullable(u.Email),
		string(u.Role),
		u.IsActive,
		now,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	u.UpdatedAt = now
	return nil
}
