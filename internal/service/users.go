package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/apperr"
	"github.com/xaenox/trendpulse/internal/models"
	"github.com/xaenox/trendpulse/internal/storage"
)

// UserPatch lists profile fields to change; nil fields stay as they are.
type UserPatch struct {
	Username  *string
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
	Role      *models.Role
}

func (s *Service) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, apperr.Validation("user with telegram_id %d already exists", u.TelegramID)
		}
		s.log(ctx).Error("Failed to create user", zap.Error(err), zap.Int64("telegram_id", u.TelegramID))
		return nil, translate(err, "user", u.TelegramID)
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	u, err := s.store.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, translate(err, "user", telegramID)
	}
	return u, nil
}

// GetOrCreateUser returns the user with u's telegram id, creating it from u when absent.
func (s *Service) GetOrCreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	user, err := s.store.GetOrCreateUser(ctx, u)
	if err != nil {
		return nil, translate(err, "user", u.TelegramID)
	}
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, telegramID int64, patch UserPatch) (*models.User, error) {
	var updated *models.User
	err := s.store.WithTx(ctx, func(tx storage.Storage) error {
		u, err := tx.GetUserByTelegramID(ctx, telegramID)
		if err != nil {
			return translate(err, "user", telegramID)
		}

		if patch.Username != nil {
			u.Username = patch.Username
		}
		if patch.FirstName != nil {
			u.FirstName = patch.FirstName
		}
		if patch.LastName != nil {
			u.LastName = patch.LastName
		}
		if patch.Phone != nil {
			u.Phone = patch.Phone
		}
		if patch.Email != nil {
			u.Email = patch.Email
		}
		if patch.Role != nil {
			u.Role = *patch.Role
		}

		if err := tx.UpdateUser(ctx, u); err != nil {
			return translate(err, "user", telegramID)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) ListUserScenarios(ctx context.Context, telegramID int64) ([]*models.Scenario, error) {
	u, err := s.GetUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	scenarios, err := s.store.ListScenariosByUser(ctx, u.ID)
	if err != nil {
		return nil, translate(err, "scenarios", telegramID)
	}
	return scenarios, nil
}

func (s *Service) ListUserLandPlots(ctx context.Context, telegramID int64) ([]*models.LandPlot, error) {
	u, err := s.GetUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	plots, err := s.store.ListLandPlotsByUser(ctx, u.ID)
	if err != nil {
		return nil, translate(err, "land plots", telegramID)
	}
	return plots, nil
}
